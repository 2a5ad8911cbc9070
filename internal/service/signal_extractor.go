package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/proctorexam/config"
	"github.com/lshigami/proctorexam/internal/model"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

// SignalExtractor runs vision inference on one frame. Implementations must be
// safe for concurrent use.
type SignalExtractor interface {
	Extract(ctx context.Context, frame model.Frame) (model.FrameSignals, error)
}

const frameSignalsPrompt = `You are the vision component of an online exam proctoring system.
Inspect the webcam frame above and report, as a single JSON object and nothing else:
{"face_count": <number of human faces visible>,
 "gaze": "left" | "right" | "center" | "no_face",
 "phone_present": <true if a mobile phone is visible, otherwise false>}
"gaze" describes where the main face is looking relative to the screen; use "no_face" when no face is visible.`

type geminiSignalExtractor struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiSignalExtractor creates the extractor once at startup; the client
// is closed when the application stops. Without an API key the extractor
// stays registered but reports ErrUnavailable.
func NewGeminiSignalExtractor(lc fx.Lifecycle, cfg *config.Config) (SignalExtractor, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Frame analysis will be unavailable.")
		return &geminiSignalExtractor{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.Proctor.VisionModel)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return &geminiSignalExtractor{client: client, model: m}, nil
}

func (s *geminiSignalExtractor) Extract(ctx context.Context, frame model.Frame) (model.FrameSignals, error) {
	if s.model == nil {
		return model.FrameSignals{}, fmt.Errorf("%w: vision model not configured", ErrUnavailable)
	}

	format := strings.TrimPrefix(frame.MIMEType, "image/")
	resp, err := s.model.GenerateContent(ctx, genai.ImageData(format, frame.Raw), genai.Text(frameSignalsPrompt))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during frame analysis")
		return model.FrameSignals{}, fmt.Errorf("%w: vision request failed: %v", ErrUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return model.FrameSignals{}, fmt.Errorf("%w: vision model returned no content", ErrUnavailable)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	signals, err := parseFrameSignals(text.String())
	if err != nil {
		log.Warn().Err(err).Str("rawResponse", text.String()).Msg("Failed to parse frame signals from Gemini response")
		return model.FrameSignals{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return signals, nil
}

// parseFrameSignals reads the model's JSON answer and normalises it.
func parseFrameSignals(raw string) (model.FrameSignals, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}")
	if start == -1 || end < start {
		return model.FrameSignals{}, fmt.Errorf("no JSON object in response")
	}

	var payload struct {
		FaceCount    int    `json:"face_count"`
		Gaze         string `json:"gaze"`
		PhonePresent bool   `json:"phone_present"`
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err != nil {
		return model.FrameSignals{}, fmt.Errorf("invalid frame signals JSON: %w", err)
	}

	signals := model.FrameSignals{FaceCount: payload.FaceCount, PhonePresent: payload.PhonePresent}
	if signals.FaceCount < 0 {
		signals.FaceCount = 0
	}
	switch model.Gaze(strings.ToLower(strings.TrimSpace(payload.Gaze))) {
	case model.GazeLeft:
		signals.Gaze = model.GazeLeft
	case model.GazeRight:
		signals.Gaze = model.GazeRight
	case model.GazeNoFace:
		signals.Gaze = model.GazeNoFace
	default:
		signals.Gaze = model.GazeCenter
	}
	if signals.FaceCount == 0 {
		signals.Gaze = model.GazeNoFace
	}
	return signals, nil
}
