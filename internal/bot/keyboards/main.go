package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
)

// Callback data
const (
	Dose          = "dose"
	BloodSugar    = "blood_sugar"
	Settings      = "settings"
	History       = "history"
	MainMenuData  = "main_menu"
	NoCarbs       = "no_carbs"
	SetFirstRatio = "set_first_ratio"
	SetOtherRatio = "set_other_ratio"
	Presets       = "presets"
	AddPreset     = "add_preset"

	MealPrefix         = "meal:"
	PresetPrefix       = "preset:"
	DeletePresetPrefix = "delete_preset:"
)

// MealTypeLabels holds the Russian button labels per meal type
var MealTypeLabels = map[insulin.MealType]string{
	insulin.MealFirst:   "🍳 Первый приём пищи",
	insulin.MealOther:   "🍽️ Другой приём пищи",
	insulin.MealBedtime: "🌙 Перед сном",
}

func backRow(label, data string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(label, data),
	)
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💉 Расчёт дозы", Dose),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🩸 Уровень сахара", BloodSugar),
			tgbotapi.NewInlineKeyboardButtonData("📜 История", History),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Настройки", Settings),
		),
	)
}

// BackToMainMenu is a single "main menu" button
func BackToMainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(backRow("◀️ Главное меню", MainMenuData))
}

// MealTypeMenu lets the user pick the meal type for a dose calculation
func MealTypeMenu() tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	for _, mt := range insulin.MealTypes {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			backRow(MealTypeLabels[mt], MealPrefix+string(mt)),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, backRow("◀️ Главное меню", MainMenuData))
	return keyboard
}

// CarbsMenu offers saved meals and a "no carbs" option while waiting for carbs
func CarbsMenu(presets []database.MealPreset) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	for _, p := range presets {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			backRow(fmt.Sprintf("⭐ %s (%g г)", p.Name, p.Carbs), fmt.Sprintf("%s%d", PresetPrefix, p.ID)),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
		backRow("🚫 Без углеводов", NoCarbs),
		backRow("◀️ Отмена", MainMenuData),
	)
	return keyboard
}

// SettingsMenu creates the settings menu keyboard
func SettingsMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		backRow("🍳 Коэф. первого приёма", SetFirstRatio),
		backRow("🍽️ Коэф. других приёмов", SetOtherRatio),
		backRow("⭐ Мои блюда", Presets),
		backRow("◀️ Главное меню", MainMenuData),
	)
}

// PresetsMenu lists saved meals with delete buttons
func PresetsMenu(presets []database.MealPreset) tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(backRow("➕ Добавить", AddPreset))
	for _, p := range presets {
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard,
			backRow("🗑️ "+p.Name, fmt.Sprintf("%s%d", DeletePresetPrefix, p.ID)),
		)
	}
	keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, backRow("◀️ Назад", Settings))
	return keyboard
}
