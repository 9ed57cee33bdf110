package handlers

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	*dialog
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *database.User) error {
	// Answer the callback query first to remove the loading state
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.WithContext(ctx).Warn("Failed to answer callback query", "error", err)
	}

	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID
	data := query.Data

	switch {
	case data == keyboards.MainMenuData:
		return h.mainMenu(user, chatID)
	case data == keyboards.Dose:
		return h.startDose(user, chatID)
	case strings.HasPrefix(data, keyboards.MealPrefix):
		return h.handleMealType(ctx, user, chatID, strings.TrimPrefix(data, keyboards.MealPrefix))
	case data == keyboards.NoCarbs:
		return h.handleNoCarbs(user, chatID)
	case strings.HasPrefix(data, keyboards.PresetPrefix):
		return h.handlePreset(ctx, user, chatID, data)
	case data == keyboards.BloodSugar:
		return h.handleBloodSugar(user, chatID)
	case data == keyboards.History:
		return h.showHistory(ctx, user, chatID)
	case data == keyboards.Settings:
		return h.showSettings(ctx, user, chatID)
	case data == keyboards.SetFirstRatio:
		return h.askRatio(user, chatID, state.WaitingForFirstMealRatio, "первого приёма пищи")
	case data == keyboards.SetOtherRatio:
		return h.askRatio(user, chatID, state.WaitingForOtherMealRatio, "других приёмов пищи")
	case data == keyboards.Presets:
		return h.showPresets(ctx, user, chatID)
	case data == keyboards.AddPreset:
		return h.handleAddPreset(user, chatID)
	case strings.HasPrefix(data, keyboards.DeletePresetPrefix):
		return h.handleDeletePreset(ctx, user, chatID, data)
	default:
		return h.send(chatID, "Неизвестное действие. Используйте /start для возврата в меню.", nil)
	}
}

func (h *CallbackHandler) handleMealType(ctx context.Context, user *database.User, chatID int64, tag string) error {
	mealType, ok := insulin.ParseMealType(tag)
	if !ok {
		return h.startDose(user, chatID)
	}
	return h.chooseMeal(ctx, user, chatID, mealType)
}

// handleNoCarbs continues the dose dialog with carbs left absent
func (h *CallbackHandler) handleNoCarbs(user *database.User, chatID int64) error {
	if h.stateManager.GetUserState(user.TelegramID) != state.WaitingForCarbs {
		return h.startDose(user, chatID)
	}
	return h.askDoseBG(user, chatID)
}

func (h *CallbackHandler) handlePreset(ctx context.Context, user *database.User, chatID int64, data string) error {
	if h.stateManager.GetUserState(user.TelegramID) != state.WaitingForCarbs {
		return h.startDose(user, chatID)
	}

	presetID, ok := parseID(data, keyboards.PresetPrefix)
	if !ok {
		return h.startDose(user, chatID)
	}

	preset, err := h.deps.PresetSvc.Get(ctx, user.ID, presetID)
	if err != nil {
		return h.fail(ctx, chatID, "preset", err)
	}
	return h.setCarbs(user, chatID, preset.Carbs)
}

func (h *CallbackHandler) handleBloodSugar(user *database.User, chatID int64) error {
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForBloodSugar)
	kb := keyboards.BackToMainMenu()
	return h.send(chatID, "Введите уровень сахара в крови (ммоль/л):", &kb)
}

func (h *CallbackHandler) askRatio(user *database.User, chatID int64, next, label string) error {
	h.stateManager.SetUserState(user.TelegramID, next)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Отмена", keyboards.Settings),
		),
	)
	return h.send(chatID, "Сколько граммов углеводов покрывает 1 единица инсулина для "+label+"? (например: 10)", &kb)
}

func (h *CallbackHandler) handleAddPreset(user *database.User, chatID int64) error {
	h.stateManager.SetUserState(user.TelegramID, state.WaitingForPresetName)
	h.stateManager.ClearTempData(user.TelegramID)
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Отмена", keyboards.Presets),
		),
	)
	return h.send(chatID, "Введите название блюда:", &kb)
}

func (h *CallbackHandler) handleDeletePreset(ctx context.Context, user *database.User, chatID int64, data string) error {
	presetID, ok := parseID(data, keyboards.DeletePresetPrefix)
	if !ok {
		return h.showPresets(ctx, user, chatID)
	}

	if err := h.deps.PresetSvc.Delete(ctx, user.ID, presetID); err != nil {
		return h.fail(ctx, chatID, "delete_preset", err)
	}
	return h.showPresets(ctx, user, chatID)
}
