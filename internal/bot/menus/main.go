package menus

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/keyboards"
	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
)

// Sender is the part of *tgbotapi.BotAPI used by the bot
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const disclaimer = "⚠️ *Важно:* Это справочная информация, всегда консультируйтесь с врачом!"

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	text := `💉 *Дневник диабета* — помощник для расчёта дозы инсулина

• Рассчитаю дозу на еду и коррекцию по уровню сахара
• Сохраню замеры сахара и историю расчётов

` + disclaimer + `

Выберите действие:`

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// SendSettingsMenu shows the carbohydrate ratios in use
func SendSettingsMenu(api Sender, chatID int64, settings insulin.Settings) error {
	text := fmt.Sprintf(`⚙️ *Настройки*

🍳 Первый приём пищи: 1 ед на %s г углеводов
🍽️ Другие приёмы пищи: 1 ед на %s г углеводов
🎯 Целевой диапазон: %d–%d мг/дл`,
		formatNumber(settings.FirstMealRatio),
		formatNumber(settings.OtherMealRatio),
		settings.TargetLow, settings.TargetHigh,
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = keyboards.SettingsMenu()
	_, err := api.Send(msg)
	return err
}

// SendPresetsMenu lists saved meals
func SendPresetsMenu(api Sender, chatID int64, presets []database.MealPreset) error {
	var text string
	if len(presets) == 0 {
		text = "У вас пока нет сохранённых блюд. Нажмите 'Добавить' чтобы создать новое."
	} else {
		var sb strings.Builder
		sb.WriteString("Ваши блюда:\n\n")
		for _, p := range presets {
			fmt.Fprintf(&sb, "⭐ %s: %s г углеводов\n", p.Name, formatNumber(p.Carbs))
		}
		text = sb.String()
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboards.PresetsMenu(presets)
	_, err := api.Send(msg)
	return err
}

// MealTypeName returns the Russian name of a meal type
func MealTypeName(mt insulin.MealType) string {
	switch mt {
	case insulin.MealFirst:
		return "первый приём пищи"
	case insulin.MealOther:
		return "другой приём пищи"
	case insulin.MealBedtime:
		return "перед сном"
	default:
		return string(mt)
	}
}

// FormatCalculation renders a stored calculation. Numbers are rounded to
// one decimal for display only.
func FormatCalculation(calc *database.InsulinCalculation) string {
	var sb strings.Builder

	sb.WriteString("💉 *Расчёт дозы*\n\n")
	fmt.Fprintf(&sb, "🍽️ Приём пищи: %s\n", MealTypeName(insulin.MealType(calc.MealType)))
	if calc.Carbs != nil {
		fmt.Fprintf(&sb, "🍞 Углеводы: %s г\n", formatNumber(*calc.Carbs))
	}
	fmt.Fprintf(&sb, "🩸 Сахар: %.1f ммоль/л (%.1f мг/дл)\n\n",
		insulin.RoundForDisplay(calc.BGMmolL), insulin.RoundForDisplay(calc.BGMgdl))

	fmt.Fprintf(&sb, "Инсулин на еду: %.1f ед\n", insulin.RoundForDisplay(calc.MealInsulin))
	fmt.Fprintf(&sb, "Коррекция: %s ед\n", formatSigned(insulin.RoundForDisplay(calc.CorrectionInsulin)))
	fmt.Fprintf(&sb, "_%s_\n", calc.CorrectionRange)
	fmt.Fprintf(&sb, "*Итого: %.1f ед*\n\n", insulin.RoundForDisplay(calc.TotalInsulin))

	sb.WriteString(disclaimer)
	return sb.String()
}

// FormatHistory renders the latest calculations, newest first
func FormatHistory(calcs []database.InsulinCalculation) string {
	if len(calcs) == 0 {
		return "История расчётов пуста."
	}

	var sb strings.Builder
	sb.WriteString("📜 Последние расчёты:\n\n")
	for _, c := range calcs {
		fmt.Fprintf(&sb, "%s — %s, сахар %.1f ммоль/л: %.1f ед\n",
			c.Timestamp.Format("02.01 15:04"),
			MealTypeName(insulin.MealType(c.MealType)),
			insulin.RoundForDisplay(c.BGMmolL),
			insulin.RoundForDisplay(c.TotalInsulin),
		)
	}
	return sb.String()
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", insulin.RoundForDisplay(v))
}

func formatSigned(v float64) string {
	if v > 0 {
		return fmt.Sprintf("+%.1f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
