package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
	"github.com/Vovarama1992/agro-ai-gateway/internal/history"
	"github.com/Vovarama1992/agro-ai-gateway/internal/prompt"
)

// strategy is the per-kind part of a generation run.
type strategy struct {
	compose func(c *prompt.Composer, req Request) (prompt.Composition, error)
	// recordPrompt is the prompt text stored with the interaction.
	recordPrompt func(req Request) string
	followUps    bool
}

var strategies = map[history.Kind]strategy{
	history.KindAssistant: {
		compose: func(c *prompt.Composer, req Request) (prompt.Composition, error) {
			return c.Assistant(req.Text, req.PriorContext, req.Language)
		},
		recordPrompt: func(req Request) string { return strings.TrimSpace(req.Text) },
		followUps:    true,
	},
	history.KindFarmAnalyzer: {
		compose: func(c *prompt.Composer, req Request) (prompt.Composition, error) {
			if req.Farm == nil {
				return prompt.Composition{}, missingPayload("farm")
			}
			return c.FarmAnalysis(*req.Farm, req.Language)
		},
		recordPrompt: func(req Request) string { return fieldsJSON(req.Farm) },
	},
	history.KindSoilAnalyzer: {
		compose: func(c *prompt.Composer, req Request) (prompt.Composition, error) {
			if req.Soil == nil {
				return prompt.Composition{}, missingPayload("soil")
			}
			return c.SoilAnalysis(*req.Soil, req.Language)
		},
		recordPrompt: func(req Request) string { return fieldsJSON(req.Soil) },
	},
	history.KindCropAnalyzer: {
		compose: func(c *prompt.Composer, req Request) (prompt.Composition, error) {
			if req.Crop == nil {
				return prompt.Composition{}, missingPayload("crop")
			}
			return c.CropAnalysis(*req.Crop, req.Language)
		},
		recordPrompt: func(req Request) string {
			angle, _ := prompt.ParseAnalysisType(req.Crop.AnalysisType)
			return fmt.Sprintf("%s: %s", angle, imageLabel(req.Crop.ImageRef))
		},
	},
}

func fieldsJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(b)
}

// imageLabel keeps URLs as-is and shortens inline data URIs to their header.
func imageLabel(ref string) string {
	ref = strings.TrimSpace(ref)
	if !strings.HasPrefix(ref, "data:") {
		return ref
	}
	header, data, _ := strings.Cut(ref, ",")
	return fmt.Sprintf("%s (%d bytes inline)", header, len(data))
}

func missingPayload(member string) error {
	return apperr.New(apperr.InvalidInput, errors.New(member+" payload is required"))
}
