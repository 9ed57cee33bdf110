package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladimiradmaev/diabetes-tracker/internal/config"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
	"github.com/vladimiradmaev/diabetes-tracker/internal/services"
)

func newCalculateCmd() *cobra.Command {
	var (
		meal  string
		carbs float64
		bg    float64
	)

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate an insulin dose",
		Long: `Calculates meal and correction insulin with the configured ratios and tables.
Glucose is entered in mmol/L. Omit --carbs to calculate without a carbohydrate value.`,
		Example: `  insulinctl calculate --meal first --carbs 30 --bg 10
  insulinctl calculate --meal bedtime --bg 7.2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			mealType, ok := insulin.ParseMealType(meal)
			if !ok {
				return fmt.Errorf("unknown meal type %q, expected first, other or bedtime", meal)
			}

			in := insulin.Input{MealType: mealType, BGMmolL: bg}
			if cmd.Flags().Changed("carbs") {
				in.Carbs = insulin.Carbs(carbs)
			}
			if err := services.ValidateInput(in); err != nil {
				return err
			}

			result := insulin.NewCalculator(cfg.Calculator).Calculate(in)
			printResult(cmd, in, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&meal, "meal", "", "meal type: first, other or bedtime")
	cmd.Flags().Float64Var(&carbs, "carbs", 0, "carbohydrates in grams")
	cmd.Flags().Float64Var(&bg, "bg", 0, "blood glucose in mmol/L")
	cmd.MarkFlagRequired("meal")
	cmd.MarkFlagRequired("bg")

	return cmd
}

func printResult(cmd *cobra.Command, in insulin.Input, r insulin.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Meal type:          %s\n", in.MealType)
	if in.Carbs != nil {
		fmt.Fprintf(out, "Carbs:              %g g\n", *in.Carbs)
	}
	fmt.Fprintf(out, "Blood glucose:      %g mmol/L (%.1f mg/dL)\n", in.BGMmolL, insulin.RoundForDisplay(r.BGMgdl))
	fmt.Fprintf(out, "Meal insulin:       %.1f U\n", insulin.RoundForDisplay(r.MealInsulin))
	fmt.Fprintf(out, "Correction insulin: %.1f U (%s)\n", insulin.RoundForDisplay(r.CorrectionInsulin), r.CorrectionRange)
	fmt.Fprintf(out, "Total insulin:      %.1f U\n", insulin.RoundForDisplay(r.TotalInsulin))
}
