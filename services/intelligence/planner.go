package intelligence

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"deskhive/models"
	"deskhive/utils"
)

// PlannerService generates a structured day plan for a workspace location.
type PlannerService interface {
	GenerateDayPlan(ctx context.Context, req models.DayPlanRequest) (*models.DayPlan, error)
}

type DefaultPlannerService struct {
	Generator TextGenerator
}

func NewPlannerService(gen TextGenerator) *DefaultPlannerService {
	return &DefaultPlannerService{Generator: gen}
}

func (s *DefaultPlannerService) GenerateDayPlan(ctx context.Context, req models.DayPlanRequest) (*models.DayPlan, error) {
	if strings.TrimSpace(req.Location) == "" {
		return nil, fmt.Errorf("location is required")
	}

	raw, err := s.Generator.GenerateContent(ctx, buildPrompt(req))
	if err != nil {
		return nil, err
	}

	plan, err := parsePlan(raw)
	if err != nil {
		utils.GetLogger().Warn("day plan response was not valid JSON",
			zap.String("location", req.Location), zap.Error(err))
		return nil, fmt.Errorf("model returned an unusable plan: %w", err)
	}
	return plan, nil
}

func buildPrompt(req models.DayPlanRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a detailed day plan for %s.\n", req.Location)
	sb.WriteString("Format the response as a JSON object with morning, afternoon, and evening activities.\n")
	sb.WriteString("Each activity must have a time, title, and details.\n")
	sb.WriteString("Include specific locations, estimated costs, and practical details.\n")
	if req.Preferences != "" {
		fmt.Fprintf(&sb, "Consider these preferences: %s\n", req.Preferences)
	}
	sb.WriteString(`
Respond with JSON only, in exactly this shape:
{
  "morning": [{"time": "HH:MM", "title": "Activity Title", "details": "Detailed description with practical info"}],
  "afternoon": [{"time": "HH:MM", "title": "Activity Title", "details": "Detailed description with practical info"}],
  "evening": [{"time": "HH:MM", "title": "Activity Title", "details": "Detailed description with practical info"}]
}`)
	return sb.String()
}

// parsePlan decodes the model output, tolerating markdown code fences the
// model sometimes wraps JSON in.
func parsePlan(raw string) (*models.DayPlan, error) {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	var plan models.DayPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, err
	}
	if plan.Morning == nil {
		plan.Morning = []models.Activity{}
	}
	if plan.Afternoon == nil {
		plan.Afternoon = []models.Activity{}
	}
	if plan.Evening == nil {
		plan.Evening = []models.Activity{}
	}
	return &plan, nil
}
