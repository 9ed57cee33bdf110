package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladimiradmaev/diabetes-tracker/internal/config"
)

func newValidateConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE:  runValidateConfig,
	}
}

func runValidateConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔍 Проверка конфигурации...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(out, "❌ Ошибка валидации конфигурации:\n%v\n", err)
		return err
	}

	fmt.Fprintln(out, "✅ Конфигурация валидна!")
	fmt.Fprintf(out, "📋 Детали конфигурации:\n")
	fmt.Fprintf(out, "  - Telegram Token: %s\n", maskToken(cfg.TelegramToken))
	fmt.Fprintf(out, "  - HTTP Addr: %s\n", cfg.HTTP.Addr)
	fmt.Fprintf(out, "  - Rate Limit: %g rps, burst %d\n", cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	fmt.Fprintf(out, "  - DB Host: %s\n", cfg.DB.Host)
	fmt.Fprintf(out, "  - DB Port: %s\n", cfg.DB.Port)
	fmt.Fprintf(out, "  - DB User: %s\n", cfg.DB.User)
	fmt.Fprintf(out, "  - DB Password: %s\n", maskToken(cfg.DB.Password))
	fmt.Fprintf(out, "  - DB Name: %s\n", cfg.DB.DBName)
	fmt.Fprintf(out, "  - Redis: %s\n", redisAddr(cfg.Redis))
	fmt.Fprintf(out, "  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Fprintf(out, "  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Fprintf(out, "  - Log Format: %s\n", cfg.Logger.Format)
	fmt.Fprintf(out, "  - Tracing Endpoint: %s\n", orUnset(cfg.Tracing.Endpoint))
	fmt.Fprintf(out, "  - Carb Ratios: first %g g/U, other %g g/U\n",
		cfg.Calculator.FirstMealRatio, cfg.Calculator.OtherMealRatio)
	fmt.Fprintf(out, "  - Correction Tables: standard %d rows, bedtime %d rows\n",
		len(cfg.Calculator.StandardTable), len(cfg.Calculator.BedtimeTable))
	return nil
}

func maskToken(token string) string {
	if token == "" {
		return "<не установлен>"
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func orUnset(v string) string {
	if v == "" {
		return "<не установлен>"
	}
	return v
}

func redisAddr(cfg config.RedisConfig) string {
	if cfg.Host == "" {
		return "<не установлен, состояние бота в памяти>"
	}
	return cfg.Host + ":" + cfg.Port
}
