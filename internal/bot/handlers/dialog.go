package handlers

import (
	"context"
	"math"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
)

const historyLimit = 10

// dialog holds the steps shared by callback and text handlers
type dialog struct {
	api          Sender
	deps         Dependencies
	stateManager state.StateManager
}

func (d *dialog) send(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	_, err := d.api.Send(msg)
	return err
}

// fail logs err and tells the user something went wrong
func (d *dialog) fail(ctx context.Context, chatID int64, action string, err error) error {
	logger.WithContext(ctx).Error("Bot action failed", "action", action, "chat_id", chatID, "error", err)
	kb := keyboards.BackToMainMenu()
	return d.send(chatID, "Произошла ошибка. Пожалуйста, попробуйте еще раз.", &kb)
}

func (d *dialog) mainMenu(user *database.User, chatID int64) error {
	d.stateManager.SetUserState(user.TelegramID, state.None)
	d.stateManager.ClearTempData(user.TelegramID)
	return menus.SendMainMenu(d.api, chatID)
}

// startDose begins a dose calculation with the meal type choice
func (d *dialog) startDose(user *database.User, chatID int64) error {
	d.stateManager.SetUserState(user.TelegramID, state.None)
	d.stateManager.ClearTempData(user.TelegramID)
	kb := keyboards.MealTypeMenu()
	return d.send(chatID, "Выберите приём пищи:", &kb)
}

// chooseMeal stores the meal type and asks for carbs, or for glucose at bedtime
func (d *dialog) chooseMeal(ctx context.Context, user *database.User, chatID int64, mealType insulin.MealType) error {
	d.stateManager.ClearTempData(user.TelegramID)
	d.stateManager.SetTempData(user.TelegramID, state.KeyMealType, string(mealType))

	if mealType == insulin.MealBedtime {
		return d.askDoseBG(user, chatID)
	}

	presets, err := d.deps.PresetSvc.List(ctx, user.ID)
	if err != nil {
		logger.WithContext(ctx).Warn("Failed to load meal presets", "user_id", user.ID, "error", err)
		presets = nil
	}

	d.stateManager.SetUserState(user.TelegramID, state.WaitingForCarbs)
	kb := keyboards.CarbsMenu(presets)
	return d.send(chatID, "Введите количество углеводов в граммах (например: 45) или выберите блюдо:", &kb)
}

func (d *dialog) setCarbs(user *database.User, chatID int64, carbs float64) error {
	d.stateManager.SetTempData(user.TelegramID, state.KeyCarbs, carbs)
	return d.askDoseBG(user, chatID)
}

func (d *dialog) askDoseBG(user *database.User, chatID int64) error {
	d.stateManager.SetUserState(user.TelegramID, state.WaitingForDoseBG)
	kb := keyboards.BackToMainMenu()
	return d.send(chatID, "Введите уровень сахара в крови (ммоль/л):", &kb)
}

// finishDose runs and stores the calculation with the collected dialog data
func (d *dialog) finishDose(ctx context.Context, user *database.User, chatID int64, bg float64) error {
	mealTag, ok := state.GetString(d.stateManager, user.TelegramID, state.KeyMealType)
	mealType, valid := insulin.ParseMealType(mealTag)
	if !ok || !valid {
		// state expired or was cleared
		return d.startDose(user, chatID)
	}

	in := insulin.Input{MealType: mealType, BGMmolL: bg}
	if carbs, ok := state.GetFloat(d.stateManager, user.TelegramID, state.KeyCarbs); ok {
		in.Carbs = insulin.Carbs(carbs)
	}

	calc, err := d.deps.CalculationSvc.Calculate(ctx, user.ID, in)
	if err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeValidation {
			return d.send(chatID, "Пожалуйста, введите корректный уровень сахара от 0.1 до 55.5 ммоль/л (например: 5.6)", nil)
		}
		return d.fail(ctx, chatID, "calculate", err)
	}

	d.stateManager.SetUserState(user.TelegramID, state.None)
	d.stateManager.ClearTempData(user.TelegramID)

	msg := tgbotapi.NewMessage(chatID, menus.FormatCalculation(calc))
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err = d.api.Send(msg)
	return err
}

func (d *dialog) showSettings(ctx context.Context, user *database.User, chatID int64) error {
	d.stateManager.SetUserState(user.TelegramID, state.None)
	settings, err := d.deps.UserService.GetSettings(ctx, user.ID)
	if err != nil {
		return d.fail(ctx, chatID, "settings", err)
	}
	return menus.SendSettingsMenu(d.api, chatID, settings)
}

func (d *dialog) showPresets(ctx context.Context, user *database.User, chatID int64) error {
	d.stateManager.SetUserState(user.TelegramID, state.None)
	presets, err := d.deps.PresetSvc.List(ctx, user.ID)
	if err != nil {
		return d.fail(ctx, chatID, "presets", err)
	}
	return menus.SendPresetsMenu(d.api, chatID, presets)
}

func (d *dialog) showHistory(ctx context.Context, user *database.User, chatID int64) error {
	calcs, err := d.deps.CalculationSvc.History(ctx, user.ID, historyLimit)
	if err != nil {
		return d.fail(ctx, chatID, "history", err)
	}
	kb := keyboards.BackToMainMenu()
	return d.send(chatID, menus.FormatHistory(calcs), &kb)
}

// parseNumber accepts both "5.6" and "5,6"
func parseNumber(text string) (float64, bool) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseID extracts the numeric suffix of callback data like "preset:12"
func parseID(data, prefix string) (uint, bool) {
	v, err := strconv.ParseUint(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
