package server

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/jmylchreest/prism/internal/analysis"
	"github.com/jmylchreest/prism/internal/colour"
	"github.com/jmylchreest/prism/internal/config"
	imageutil "github.com/jmylchreest/prism/internal/image"
)

// multipartField is the form field that carries the uploaded image.
const multipartField = "image"

var errMissingImage = errors.New("request contains no image")

// Swatch is a colour with its hex form.
type Swatch struct {
	Hex string     `json:"hex"`
	RGB colour.RGB `json:"rgb"`
}

func newSwatch(c colour.RGB) Swatch {
	return Swatch{Hex: c.Hex(), RGB: c}
}

// RoleSwatch is a palette slot with its readable text colour.
type RoleSwatch struct {
	Swatch
	Text        string `json:"text"`
	Synthesized bool   `json:"synthesized"`
}

// PaletteResponse is the JSON form of a palette.
type PaletteResponse struct {
	Primary       RoleSwatch `json:"primary"`
	Secondary     RoleSwatch `json:"secondary"`
	Complementary RoleSwatch `json:"complementary"`
	Accent        RoleSwatch `json:"accent"`
}

func newPaletteResponse(p *analysis.Palette, policy colour.ContrastPolicy) *PaletteResponse {
	if p == nil {
		return nil
	}
	text := p.TextColours(policy)
	slot := func(role analysis.Role, c colour.RGB, synthesized bool) RoleSwatch {
		return RoleSwatch{Swatch: newSwatch(c), Text: text[role].Hex(), Synthesized: synthesized}
	}
	return &PaletteResponse{
		Primary:       slot(analysis.RolePrimary, p.Primary, false),
		Secondary:     slot(analysis.RoleSecondary, p.Secondary, p.SecondarySynthesized),
		Complementary: slot(analysis.RoleComplementary, p.Complementary, true),
		Accent:        slot(analysis.RoleAccent, p.Accent, p.AccentSynthesized),
	}
}

// AnalyseResponse is returned by POST /v1/analyse.
type AnalyseResponse struct {
	Dimensions        analysis.Dimensions     `json:"dimensions"`
	SampledPixels     int                     `json:"sampledPixels"`
	TransparentPixels int                     `json:"transparentPixels"`
	Colours           []analysis.ScoredColour `json:"colours"`
	Distinct          []Swatch                `json:"distinct"`
	Threshold         float64                 `json:"threshold"`
	Passes            int                     `json:"passes"`
	Palette           *PaletteResponse        `json:"palette"`
}

// PaletteOnlyResponse is returned by POST /v1/palette.
type PaletteOnlyResponse struct {
	Dimensions analysis.Dimensions `json:"dimensions"`
	Threshold  float64             `json:"threshold"`
	Palette    *PaletteResponse    `json:"palette"`
}

// ConvertResponse is returned by GET /v1/convert.
type ConvertResponse struct {
	Input    string     `json:"input"`
	Hex      string     `json:"hex"`
	RGB      colour.RGB `json:"rgb"`
	CSS      string     `json:"css"`
	HSL      colour.HSL `json:"hsl"`
	Text     string     `json:"text"`
	Contrast float64    `json:"contrast"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /v1/analyse
func (s *Server) analyse(w http.ResponseWriter, r *http.Request) {
	cfg, report, ok := s.runPipeline(w, r)
	if !ok {
		return
	}

	distinct := make([]Swatch, len(report.Selection.Colours))
	for i, c := range report.Selection.Colours {
		distinct[i] = newSwatch(c)
	}

	s.writeJSON(w, r, http.StatusOK, AnalyseResponse{
		Dimensions:        report.Result.Dimensions,
		SampledPixels:     report.Result.SampledPixels,
		TransparentPixels: report.Result.TransparentPixels,
		Colours:           report.Result.Scored,
		Distinct:          distinct,
		Threshold:         report.Selection.Threshold,
		Passes:            report.Selection.Passes,
		Palette:           newPaletteResponse(report.Palette, cfg.Contrast),
	})
}

// POST /v1/palette
func (s *Server) palette(w http.ResponseWriter, r *http.Request) {
	cfg, report, ok := s.runPipeline(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, r, http.StatusOK, PaletteOnlyResponse{
		Dimensions: report.Result.Dimensions,
		Threshold:  report.Selection.Threshold,
		Palette:    newPaletteResponse(report.Palette, cfg.Contrast),
	})
}

// GET /v1/convert
func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("colour")
	if input == "" {
		s.badRequest(w, r, errors.New("missing colour query parameter"))
		return
	}
	c, err := colour.Parse(input)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid Colour", err, "Use #rgb, #rrggbb or rgb(r, g, b)")
		return
	}
	text := colour.ContrastText(c, s.cfg.Contrast)
	s.writeJSON(w, r, http.StatusOK, ConvertResponse{
		Input:    input,
		Hex:      c.Hex(),
		RGB:      c,
		CSS:      c.String(),
		HSL:      colour.RGBToHSL(c),
		Text:     text.Hex(),
		Contrast: colour.ContrastRatio(c, text),
	})
}

// runPipeline reads the uploaded image and runs the analysis. On failure it
// has already written the error response.
func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request) (config.Config, *analysis.Report, bool) {
	cfg, crop, err := s.requestConfig(r)
	if err != nil {
		s.badRequest(w, r, err)
		return cfg, nil, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
	img, err := s.readImage(r, cfg.MaxPixels)
	if err != nil {
		var tooLarge *http.MaxBytesError
		var decodeErr *analysis.DecodeError
		switch {
		case errors.As(err, &tooLarge):
			s.bodyTooLarge(w, r, err)
		case errors.As(err, &decodeErr):
			s.undecodableImage(w, r, err)
		default:
			s.badRequest(w, r, err)
		}
		return cfg, nil, false
	}

	buf, err := imageutil.ToBuffer(img, crop)
	if err != nil {
		s.undecodableImage(w, r, err)
		return cfg, nil, false
	}

	report, err := analysis.Run(buf, cfg.AnalysisOptions(), cfg.SelectOptions())
	if err != nil {
		s.undecodableImage(w, r, err)
		return cfg, nil, false
	}

	s.logger.Debug("analysed image",
		"id", RequestIDFrom(r.Context()),
		"width", buf.Width,
		"height", buf.Height,
		"candidates", len(report.Result.Scored),
		"distinct", len(report.Selection.Colours),
		"threshold", report.Selection.Threshold,
	)
	return cfg, report, true
}

// requestConfig overlays query parameters on the server configuration.
func (s *Server) requestConfig(r *http.Request) (config.Config, image.Rectangle, error) {
	cfg := s.cfg
	q := r.URL.Query()

	if v := q.Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f >= 0 && f <= 1) {
			return cfg, image.Rectangle{}, fmt.Errorf("threshold must be a number between 0 and 1, got %q", v)
		}
		cfg.Threshold = f
	}
	if v := q.Get("maxDimension"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, image.Rectangle{}, fmt.Errorf("maxDimension must be an integer, got %q", v)
		}
		cfg.MaxDimension = n
	}
	if v := q.Get("quantization"); v != "" {
		cfg.Quantization = analysis.Quantization(strings.ToLower(v))
		// A policy change without an explicit gate follows the new policy.
		if q.Get("gate") == "" {
			cfg.Gate = ""
		}
	}
	if v := q.Get("gate"); v != "" {
		cfg.Gate = analysis.BrightnessGate(strings.ToLower(v))
	}
	if v := q.Get("contrast"); v != "" {
		cfg.Contrast = colour.ContrastPolicy(strings.ToLower(v))
	}

	crop, err := imageutil.ParseCrop(q.Get("crop"))
	if err != nil {
		return cfg, image.Rectangle{}, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, image.Rectangle{}, err
	}
	return cfg, crop, nil
}

// readImage decodes the raw body, or the "image" field of a multipart form.
func (s *Server) readImage(r *http.Request, maxPixels int64) (image.Image, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errMissingImage
		}
		return imageutil.DecodeBytes(data, maxPixels)
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: multipart field %q not found", errMissingImage, multipartField)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid multipart body: %w", err)
		}
		if part.FormName() != multipartField {
			part.Close()
			continue
		}
		defer part.Close()
		data, err := io.ReadAll(part)
		if err != nil {
			return nil, err
		}
		return imageutil.DecodeBytes(data, maxPixels)
	}
}
