// Package prompt builds the model-facing instruction and payload for each
// request kind. Everything here is pure: no I/O, same input, same output.
package prompt

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Vovarama1992/agro-ai-gateway/internal/apperr"
)

const DefaultLanguage = "english"

type AnalysisType string

const (
	AnalysisGeneral        AnalysisType = "general"
	AnalysisDisease        AnalysisType = "disease"
	AnalysisIdentification AnalysisType = "identification"
	AnalysisPlanting       AnalysisType = "planting"
	AnalysisHarvest        AnalysisType = "harvest"
	AnalysisNutrition      AnalysisType = "nutrition"
)

// ParseAnalysisType maps "" to general and rejects unknown angles.
func ParseAnalysisType(s string) (AnalysisType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AnalysisGeneral, true
	}
	t := AnalysisType(s)
	_, ok := cropTemplates[t]
	return t, ok
}

type FarmFields struct {
	FarmSize       Number `json:"farmSize"`
	SoilType       string `json:"soilType"`
	Humidity       Number `json:"humidity"`
	Moisture       Number `json:"moisture"`
	Temperature    Number `json:"temperature"`
	Location       string `json:"location"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

type SoilFields struct {
	SoilType       string `json:"soilType"`
	PH             Number `json:"ph"`
	OrganicMatter  Number `json:"organicMatter"`
	Nitrogen       Number `json:"nitrogen"`
	Phosphorus     Number `json:"phosphorus"`
	Potassium      Number `json:"potassium"`
	Location       string `json:"location"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

type CropFields struct {
	ImageRef     string `json:"imageRef"`
	AnalysisType string `json:"analysisType"`
}

// Composition is what the model invoker sends. ImageRef is set only for
// crop analysis and is forwarded as-is (data URI or URL).
type Composition struct {
	System   string
	User     string
	ImageRef string
}

type Composer struct {
	region string
}

// NewComposer returns a Composer whose personas and templates target region.
func NewComposer(region string) *Composer {
	return &Composer{region: strings.TrimSpace(region)}
}

// NormalizeLanguage trims the tag and falls back to english.
func NormalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

func isEnglish(lang string) bool {
	return strings.EqualFold(NormalizeLanguage(lang), DefaultLanguage)
}

func (c *Composer) Assistant(text, priorContext, language string) (Composition, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Composition{}, invalid("text is required")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(assistantPersona, c.regionOr("local")))
	sb.WriteString("\n\n")
	if strings.TrimSpace(priorContext) != "" {
		sb.WriteString(fmt.Sprintf(previousConversationBlock, priorContext))
		sb.WriteString("\n\n")
	}
	sb.WriteString(assistantGuidelines)
	if !isEnglish(language) {
		sb.WriteString(" Please respond in " + NormalizeLanguage(language) + ".")
	}

	return Composition{System: sb.String(), User: text}, nil
}

func (c *Composer) FarmAnalysis(f FarmFields, language string) (Composition, error) {
	switch {
	case strings.TrimSpace(f.SoilType) == "":
		return Composition{}, invalid("soilType is required")
	case strings.TrimSpace(f.Location) == "":
		return Composition{}, invalid("location is required")
	case f.FarmSize <= 0:
		return Composition{}, invalid("farmSize must be positive")
	case !percent(f.Humidity) || !percent(f.Moisture):
		return Composition{}, invalid("humidity and moisture must be between 0 and 100")
	}

	user := fmt.Sprintf(farmTemplate,
		num(f.FarmSize),
		strings.TrimSpace(f.SoilType),
		num(f.Humidity),
		num(f.Moisture),
		num(f.Temperature),
		c.location(f.Location),
		additional(f.AdditionalInfo),
	)
	return Composition{
		System: c.analyzerSystem(farmPersona, language),
		User:   user,
	}, nil
}

func (c *Composer) SoilAnalysis(f SoilFields, language string) (Composition, error) {
	switch {
	case strings.TrimSpace(f.SoilType) == "":
		return Composition{}, invalid("soilType is required")
	case strings.TrimSpace(f.Location) == "":
		return Composition{}, invalid("location is required")
	case f.PH < 0 || f.PH > 14:
		return Composition{}, invalid("ph must be between 0 and 14")
	case !percent(f.OrganicMatter):
		return Composition{}, invalid("organicMatter must be between 0 and 100")
	case f.Nitrogen < 0 || f.Phosphorus < 0 || f.Potassium < 0:
		return Composition{}, invalid("nutrient levels must not be negative")
	}

	user := fmt.Sprintf(soilTemplate,
		strings.TrimSpace(f.SoilType),
		num(f.PH),
		num(f.OrganicMatter),
		num(f.Nitrogen),
		num(f.Phosphorus),
		num(f.Potassium),
		c.location(f.Location),
		additional(f.AdditionalInfo),
	)
	return Composition{
		System: c.analyzerSystem(soilPersona, language),
		User:   user,
	}, nil
}

func (c *Composer) CropAnalysis(f CropFields, language string) (Composition, error) {
	if err := validateImageRef(f.ImageRef); err != nil {
		return Composition{}, err
	}
	angle, ok := ParseAnalysisType(f.AnalysisType)
	if !ok {
		return Composition{}, invalid("unknown analysisType " + strconv.Quote(f.AnalysisType))
	}

	user := strings.ReplaceAll(cropTemplates[angle], "{region}", c.regionOr("the region"))
	return Composition{
		System:   c.analyzerSystem(cropPersona, language),
		User:     user,
		ImageRef: strings.TrimSpace(f.ImageRef),
	}, nil
}

func (c *Composer) analyzerSystem(persona, language string) string {
	directive := englishDirective
	if !isEnglish(language) {
		directive = fmt.Sprintf(translatedDirective, NormalizeLanguage(language))
	}
	return fmt.Sprintf(persona, c.regionOr("local")) + " " + directive
}

func (c *Composer) regionOr(def string) string {
	if c.region == "" {
		return def
	}
	return c.region
}

func (c *Composer) location(loc string) string {
	loc = strings.TrimSpace(loc)
	if c.region == "" {
		return loc
	}
	return loc + ", " + c.region
}

func validateImageRef(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return invalid("imageRef is required")
	}
	if strings.HasPrefix(ref, "data:image/") {
		if !strings.Contains(ref, ";base64,") {
			return invalid("imageRef data URI must be base64 encoded")
		}
		return nil
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return invalid("imageRef must be an image data URI or an http(s) URL")
	}
	return nil
}

func num(v Number) string {
	return strconv.FormatFloat(float64(v), 'f', -1, 64)
}

func percent(v Number) bool {
	return v >= 0 && v <= 100
}

func additional(s string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return "None provided"
}

func invalid(msg string) error {
	return apperr.New(apperr.InvalidInput, errors.New(msg))
}
