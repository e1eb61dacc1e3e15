package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/field-forecast/internal/config"
	"github.com/iwvelando/field-forecast/internal/forecast"
	"github.com/iwvelando/field-forecast/pkg/constants"
	"github.com/iwvelando/field-forecast/pkg/earnedvalue"
	"github.com/iwvelando/field-forecast/pkg/output"
	"go.uber.org/zap"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the forecast API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Project upload
	mux.HandleFunc("/api/forecast", h.handleForecast)

	// Ad hoc inline ECAC and reverse-rate for a single code
	mux.HandleFunc("/api/reverse-rate", h.handleReverseRate)

	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type forecastResponse struct {
	Project   string         `json:"project"`
	Reports   []reportView   `json:"reports"`
	Totals    totalsView     `json:"totals"`
	Inventory []materialView `json:"inventory,omitempty"`
	CSV       string         `json:"csv"`
	Warnings  []string       `json:"warnings,omitempty"`
	Duration  string         `json:"duration"`
}

// ratio is a JSON-safe rendering of a figure that may be +Inf. Value is null
// and Unbounded true when the figure has a zero denominator.
type ratio struct {
	Value     *float64
	Unbounded bool
}

func newRatio(v float64) ratio {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ratio{Unbounded: true}
	}
	return ratio{Value: &v}
}

type reportView struct {
	Code              string           `json:"code"`
	Description       string           `json:"description,omitempty"`
	UOM               string           `json:"uom,omitempty"`
	Mode              string           `json:"mode"`
	BudgetedQty       float64          `json:"budgetedQty"`
	BudgetedHours     float64          `json:"budgetedHours"`
	UnitCost          float64          `json:"unitCost"`
	ActualQty         float64          `json:"actualQty"`
	ActualHours       float64          `json:"actualHours"`
	EquipHours        float64          `json:"equipHours"`
	UsesOverride      bool             `json:"usesOverride"`
	PercentComplete   float64          `json:"percentComplete"`
	EarnedHours       float64          `json:"earnedHours"`
	PerformanceFactor *float64         `json:"performanceFactor"`
	PFUnbounded       bool             `json:"pfUnbounded"`
	Status            string           `json:"status"`
	Stale             bool             `json:"stale"`
	ECAC              ecacView         `json:"ecac"`
	ReverseRate       *reverseRateView `json:"reverseRate,omitempty"`
	Components        []componentView  `json:"components,omitempty"`
	Rollup            *rollupView      `json:"rollup,omitempty"`
	Drawdown          []materialView   `json:"drawdown"`
	Notes             []string         `json:"notes,omitempty"`
}

// materialView is a material quantity, either drawn down or on hand.
type materialView struct {
	Material string  `json:"material"`
	UOM      string  `json:"uom"`
	Qty      float64 `json:"qty"`
}

type ecacView struct {
	BudgetCost       float64 `json:"budgetCost"`
	ActualCostToDate float64 `json:"actualCostToDate"`
	CurrentRate      float64 `json:"currentRate"`
	RemainingQty     float64 `json:"remainingQty"`
	RemainingHours   float64 `json:"remainingHours"`
	RequiredRate     float64 `json:"requiredRate"`
	ECAC             float64 `json:"ecac"`
	Variance         float64 `json:"variance"`
}

type reverseRateView struct {
	TargetECAC      float64 `json:"targetECAC"`
	RemainingBudget float64 `json:"remainingBudget"`
	AffordableUnits float64 `json:"affordableUnits"`
	HoursPerUnit    float64 `json:"hoursPerUnit"`
	RemainingHours  float64 `json:"remainingHours"`
	RequiredRate    float64 `json:"requiredRate"`
}

type componentView struct {
	Name              string   `json:"name"`
	Weight            float64  `json:"weight"`
	AllocatedHours    float64  `json:"allocatedHours"`
	ProgressPct       float64  `json:"progressPct"`
	EarnedValue       float64  `json:"earnedValue"`
	BidRate           float64  `json:"bidRate"`
	InferredRate      float64  `json:"inferredRate"`
	Ratio             float64  `json:"ratio"`
	VariancePct       float64  `json:"variancePct"`
	Flag              string   `json:"flag"`
	RemainingHours    float64  `json:"remainingHours"`
	HoursAtCompletion float64  `json:"hoursAtCompletion"`
	Overrun           float64  `json:"overrun"`
	RecoveryRate      *float64 `json:"recoveryRate"`
	CanRecover        bool     `json:"canRecover"`
}

type rollupView struct {
	TotalHoursAtCompletion float64 `json:"totalHoursAtCompletion"`
	TotalOverrun           float64 `json:"totalOverrun"`
	HourlyRate             float64 `json:"hourlyRate"`
	DollarImpact           float64 `json:"dollarImpact"`
	WeightedProgress       float64 `json:"weightedProgress"`
}

type totalsView struct {
	BudgetCost        float64  `json:"budgetCost"`
	ActualCostToDate  float64  `json:"actualCostToDate"`
	ECAC              float64  `json:"ecac"`
	Variance          float64  `json:"variance"`
	EarnedHours       float64  `json:"earnedHours"`
	ActualHours       float64  `json:"actualHours"`
	PerformanceFactor *float64 `json:"performanceFactor"`
	PFUnbounded       bool     `json:"pfUnbounded"`
	Status            string   `json:"status"`
}

type reverseRateRequest struct {
	BudgetedQty   float64  `json:"budgetedQty"`
	BudgetedHours float64  `json:"budgetedHours"`
	ActualQty     float64  `json:"actualQty"`
	ActualHours   float64  `json:"actualHours"`
	UnitCost      float64  `json:"unitCost"`
	TargetECAC    *float64 `json:"targetECAC"`
}

type reverseRateResponse struct {
	ECAC        ecacView         `json:"ecac"`
	ReverseRate *reverseRateView `json:"reverseRate,omitempty"`
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize))
			return
		}
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "missing project file")
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", "server.handleForecast"),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, http.StatusInternalServerError, fmt.Sprintf("failed to read project: %v", err))
		return
	}

	h.runForecast(w, buf.Bytes(), start, "server.handleForecast")
}

func (h *handler) runForecast(w http.ResponseWriter, projectBytes []byte, start time.Time, op string) {
	if len(bytes.TrimSpace(projectBytes)) == 0 {
		h.respondErrorWithOp(w, http.StatusBadRequest, "project file is empty", op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(projectBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	cfg.Prepare()

	summary, err := forecast.GetForecast(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to compute forecast: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := forecastResponse{
		Project:   summary.Project,
		Reports:   buildReports(summary.Reports),
		Totals:    buildTotals(summary.Totals),
		Inventory: buildInventory(summary.Inventory),
		CSV:       output.CsvString(summary),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	}

	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.String("project", summary.Project),
		zap.Int("workUnits", len(response.Reports)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleReverseRate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleReverseRate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	var req reverseRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}
	if msg := validateReverseRateRequest(req); msg != "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, msg, op)
		return
	}

	input := earnedvalue.ECACInput{
		BudgetedQty:   req.BudgetedQty,
		BudgetedHours: req.BudgetedHours,
		ActualQty:     req.ActualQty,
		ActualHours:   req.ActualHours,
		UnitCost:      req.UnitCost,
	}
	response := reverseRateResponse{ECAC: buildECAC(earnedvalue.InlineECAC(input))}
	if req.TargetECAC != nil {
		reverse := earnedvalue.ReverseRate(input, *req.TargetECAC)
		response.ReverseRate = buildReverseRate(&reverse)
	}

	h.writeJSON(w, http.StatusOK, response)
}

func validateReverseRateRequest(req reverseRateRequest) string {
	switch {
	case req.BudgetedQty <= 0:
		return "budgetedQty must be positive"
	case req.BudgetedHours < 0, req.ActualQty < 0, req.ActualHours < 0, req.UnitCost < 0:
		return "quantities, hours and unit cost must not be negative"
	case req.TargetECAC != nil && *req.TargetECAC < 0:
		return "targetECAC must not be negative"
	}
	return ""
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondErrorWithOp(w, status, msg, "server.handleForecast")
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("forecast request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func buildReports(reports []forecast.Report) []reportView {
	views := make([]reportView, 0, len(reports))
	for _, report := range reports {
		pf := newRatio(report.PerformanceFactor)
		view := reportView{
			Code:              report.Code,
			Description:       report.Description,
			UOM:               report.UOM,
			Mode:              report.Mode,
			BudgetedQty:       report.BudgetedQty,
			BudgetedHours:     report.BudgetedHours,
			UnitCost:          report.UnitCost,
			ActualQty:         report.ActualQty,
			ActualHours:       report.ActualHours,
			EquipHours:        report.Aggregate.EquipHours,
			UsesOverride:      report.UsesOverride,
			PercentComplete:   report.PercentComplete,
			EarnedHours:       report.EarnedHours,
			PerformanceFactor: pf.Value,
			PFUnbounded:       pf.Unbounded,
			Status:            report.Status,
			Stale:             report.Stale,
			ECAC:              buildECAC(report.ECAC),
			ReverseRate:       buildReverseRate(report.ReverseRate),
			Drawdown:          buildDrawdown(report.Drawdown),
			Notes:             report.Notes,
		}
		if report.Rollup != nil {
			view.Components = buildComponents(report.Rollup.Components)
			view.Rollup = &rollupView{
				TotalHoursAtCompletion: report.Rollup.TotalHoursAtCompletion,
				TotalOverrun:           report.Rollup.TotalOverrun,
				HourlyRate:             report.Rollup.HourlyRate,
				DollarImpact:           report.Rollup.DollarImpact,
				WeightedProgress:       report.Rollup.WeightedProgress,
			}
		}
		views = append(views, view)
	}
	return views
}

func buildDrawdown(drawdowns []earnedvalue.Drawdown) []materialView {
	views := make([]materialView, 0, len(drawdowns))
	for _, drawdown := range drawdowns {
		views = append(views, materialView{Material: drawdown.Material, UOM: drawdown.UOM, Qty: drawdown.Qty})
	}
	return views
}

func buildInventory(items []earnedvalue.InventoryItem) []materialView {
	views := make([]materialView, 0, len(items))
	for _, item := range items {
		views = append(views, materialView{Material: item.Material, UOM: item.UOM, Qty: item.OnHand})
	}
	return views
}

func buildComponents(components []earnedvalue.ComponentAnalysis) []componentView {
	views := make([]componentView, 0, len(components))
	for _, component := range components {
		views = append(views, componentView{
			Name:              component.Name,
			Weight:            component.Weight,
			AllocatedHours:    component.AllocatedHours,
			ProgressPct:       component.ProgressPct,
			EarnedValue:       component.EarnedValue,
			BidRate:           component.BidRate,
			InferredRate:      component.InferredRate,
			Ratio:             component.Ratio,
			VariancePct:       component.VariancePct,
			Flag:              component.Flag,
			RemainingHours:    component.EAC.RemainingHours,
			HoursAtCompletion: component.EAC.HoursAtCompletion,
			Overrun:           component.EAC.Overrun,
			RecoveryRate:      newRatio(component.EAC.RecoveryRate).Value,
			CanRecover:        component.EAC.CanRecover,
		})
	}
	return views
}

func buildECAC(result earnedvalue.ECACResult) ecacView {
	return ecacView{
		BudgetCost:       result.BudgetCost,
		ActualCostToDate: result.ActualCostToDate,
		CurrentRate:      result.CurrentRate,
		RemainingQty:     result.RemainingQty,
		RemainingHours:   result.RemainingHours,
		RequiredRate:     result.RequiredRate,
		ECAC:             result.ECAC,
		Variance:         result.Variance,
	}
}

func buildReverseRate(result *earnedvalue.ReverseRateResult) *reverseRateView {
	if result == nil {
		return nil
	}
	return &reverseRateView{
		TargetECAC:      result.TargetECAC,
		RemainingBudget: result.RemainingBudget,
		AffordableUnits: result.AffordableUnits,
		HoursPerUnit:    result.HoursPerUnit,
		RemainingHours:  result.RemainingHours,
		RequiredRate:    result.RequiredRate,
	}
}

func buildTotals(totals forecast.Totals) totalsView {
	pf := newRatio(totals.PerformanceFactor)
	return totalsView{
		BudgetCost:        totals.BudgetCost,
		ActualCostToDate:  totals.ActualCostToDate,
		ECAC:              totals.ECAC,
		Variance:          totals.Variance,
		EarnedHours:       totals.EarnedHours,
		ActualHours:       totals.ActualHours,
		PerformanceFactor: pf.Value,
		PFUnbounded:       pf.Unbounded,
		Status:            totals.Status,
	}
}
