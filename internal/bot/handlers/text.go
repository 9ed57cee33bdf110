package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/menus"
	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	apperrors "github.com/vladimiradmaev/diabetes-tracker/internal/errors"
	"github.com/vladimiradmaev/diabetes-tracker/internal/services"
)

// TextHandler handles text messages
type TextHandler struct {
	*dialog
}

// Handle processes a text message according to the user's dialog state
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	chatID := message.Chat.ID

	switch h.stateManager.GetUserState(user.TelegramID) {
	case state.WaitingForCarbs:
		return h.handleCarbs(user, chatID, message.Text)
	case state.WaitingForDoseBG:
		return h.handleDoseBG(ctx, user, chatID, message.Text)
	case state.WaitingForBloodSugar:
		return h.handleBloodSugar(ctx, user, chatID, message.Text)
	case state.WaitingForFirstMealRatio:
		return h.handleRatio(ctx, user, chatID, message.Text, true)
	case state.WaitingForOtherMealRatio:
		return h.handleRatio(ctx, user, chatID, message.Text, false)
	case state.WaitingForPresetName:
		return h.handlePresetName(user, chatID, message.Text)
	case state.WaitingForPresetCarbs:
		return h.handlePresetCarbs(ctx, user, chatID, message.Text)
	default:
		return h.send(chatID, "Пожалуйста, используйте меню для выбора действия.", nil)
	}
}

func (h *TextHandler) handleCarbs(user *database.User, chatID int64, text string) error {
	carbs, ok := parseNumber(text)
	if !ok || carbs < 0 || carbs > services.MaxCarbs {
		return h.send(chatID, "Пожалуйста, введите количество углеводов от 0 до 500 г (например: 45)", nil)
	}
	return h.setCarbs(user, chatID, carbs)
}

func (h *TextHandler) handleDoseBG(ctx context.Context, user *database.User, chatID int64, text string) error {
	bg, ok := parseNumber(text)
	if !ok {
		return h.send(chatID, "Пожалуйста, введите корректное число (например: 5.6)", nil)
	}
	return h.finishDose(ctx, user, chatID, bg)
}

func (h *TextHandler) handleBloodSugar(ctx context.Context, user *database.User, chatID int64, text string) error {
	value, ok := parseNumber(text)
	if !ok {
		return h.send(chatID, "Пожалуйста, введите корректное число (например: 5.6)", nil)
	}

	if _, err := h.deps.BloodSugarSvc.AddRecord(ctx, user.ID, value); err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeValidation {
			return h.send(chatID, "Пожалуйста, введите уровень сахара от 0.1 до 55.5 ммоль/л", nil)
		}
		return h.fail(ctx, chatID, "blood_sugar", err)
	}

	h.stateManager.SetUserState(user.TelegramID, state.None)
	kb := keyboards.MainMenu()
	return h.send(chatID, fmt.Sprintf("✅ Уровень сахара %.1f ммоль/л успешно сохранен", value), &kb)
}

func (h *TextHandler) handleRatio(ctx context.Context, user *database.User, chatID int64, text string, first bool) error {
	ratio, ok := parseNumber(text)
	if !ok || ratio <= 0 || ratio > services.MaxCarbRatio {
		return h.send(chatID, "Пожалуйста, введите число от 1 до 100 (например: 12)", nil)
	}

	settings, err := h.deps.UserService.GetSettings(ctx, user.ID)
	if err != nil {
		return h.fail(ctx, chatID, "ratio", err)
	}

	firstRatio, otherRatio := settings.FirstMealRatio, settings.OtherMealRatio
	if first {
		firstRatio = ratio
	} else {
		otherRatio = ratio
	}

	if err := h.deps.UserService.UpdateRatios(ctx, user.ID, firstRatio, otherRatio); err != nil {
		return h.fail(ctx, chatID, "ratio", err)
	}

	if err := h.send(chatID, "✅ Коэффициент сохранён", nil); err != nil {
		return err
	}
	return h.showSettings(ctx, user, chatID)
}

func (h *TextHandler) handlePresetName(user *database.User, chatID int64, text string) error {
	name := strings.TrimSpace(text)
	if name == "" || len([]rune(name)) > 64 {
		return h.send(chatID, "Название должно быть от 1 до 64 символов", nil)
	}

	h.stateManager.SetTempData(user.TelegramID, state.KeyPresetName, name)
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForPresetCarbs)
	return h.send(chatID, "Сколько граммов углеводов в блюде \""+name+"\"?", nil)
}

func (h *TextHandler) handlePresetCarbs(ctx context.Context, user *database.User, chatID int64, text string) error {
	carbs, ok := parseNumber(text)
	if !ok || carbs < 0 || carbs > services.MaxCarbs {
		return h.send(chatID, "Пожалуйста, введите количество углеводов от 0 до 500 г (например: 45)", nil)
	}

	name, ok := state.GetString(h.stateManager, user.TelegramID, state.KeyPresetName)
	if !ok {
		return h.showPresets(ctx, user, chatID)
	}

	if _, err := h.deps.PresetSvc.Add(ctx, user.ID, name, carbs); err != nil {
		if apperrors.TypeOf(err) == apperrors.ErrorTypeConflict {
			h.stateManager.SetUserState(user.TelegramID, state.WaitingForPresetName)
			return h.send(chatID, "Блюдо \""+name+"\" уже сохранено. Введите другое название:", nil)
		}
		return h.fail(ctx, chatID, "add_preset", err)
	}

	h.stateManager.ClearTempData(user.TelegramID)
	h.stateManager.SetUserState(user.TelegramID, state.None)

	presets, err := h.deps.PresetSvc.List(ctx, user.ID)
	if err != nil {
		return h.fail(ctx, chatID, "presets", err)
	}
	return menus.SendPresetsMenu(h.api, chatID, presets)
}
