package server

import (
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vladimiradmaev/diabetes-tracker/internal/handlers"
	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
	"github.com/vladimiradmaev/diabetes-tracker/internal/observability"
)

var tracer = otel.Tracer("insulin")

func startCalculationSpan(r *http.Request, name string, req CalculateRequest) (*http.Request, trace.Span) {
	ctx, span := tracer.Start(r.Context(), name,
		trace.WithAttributes(
			attribute.String("insulin.meal_type", req.MealType),
			attribute.Float64("insulin.bg_mmol_l", req.BG),
			attribute.Bool("insulin.carbs_present", req.Carbs != nil),
			attribute.String("request.id", observability.RequestIDFromContext(r.Context())),
		),
	)
	return r.WithContext(ctx), span
}

func recordResult(span trace.Span, result insulin.Result) {
	span.SetAttributes(
		attribute.Float64("insulin.bg_mgdl", result.BGMgdl),
		attribute.Float64("insulin.total", result.TotalInsulin),
		attribute.String("insulin.correction_range", result.CorrectionRange),
	)
	span.SetStatus(codes.Ok, "")
}

func failSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// previewCalculation handles POST /api/insulin/calculate
func (s *Server) previewCalculation(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	r, span := startCalculationSpan(r, "insulin.preview", req)
	defer span.End()

	in := req.input()
	result, err := s.services.Calculations.Preview(r.Context(), in)
	if err != nil {
		failSpan(span, err)
		writeError(w, r, err)
		return
	}
	recordResult(span, result)

	handlers.WriteJSON(w, http.StatusOK, CalculateResponse{
		MealType: string(in.MealType),
		Carbs:    req.Carbs,
		BGMmolL:  req.BG,
		Result:   result,
		Display:  displayOf(result),
	})
}

// tables handles GET /api/insulin/tables
func (s *Server) tables(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, s.services.Calculations.DefaultSettings())
}

// createCalculation handles POST /api/users/{userID}/calculations
func (s *Server) createCalculation(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}

	var req CalculateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	r, span := startCalculationSpan(r, "insulin.calculate", req)
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", int64(userID)))

	calc, err := s.services.Calculations.Calculate(r.Context(), userID, req.input())
	if err != nil {
		failSpan(span, err)
		writeError(w, r, err)
		return
	}

	resp := calculationResponse(calc)
	recordResult(span, resp.Result)

	handlers.WriteJSON(w, http.StatusCreated, resp)
}

// listCalculations handles GET /api/users/{userID}/calculations
func (s *Server) listCalculations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDParam(w, r)
	if !ok {
		return
	}
	limit, ok := limitParam(w, r)
	if !ok {
		return
	}

	calcs, err := s.services.Calculations.History(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]CalculationResponse, 0, len(calcs))
	for i := range calcs {
		resp = append(resp, calculationResponse(&calcs[i]))
	}
	handlers.WriteJSON(w, http.StatusOK, resp)
}
