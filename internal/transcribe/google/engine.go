// Package google provides a Google Cloud Speech-to-Text transcription
// engine.
package google

import (
	"context"
	"os"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/elci-group/babymode/internal/transcribe"
)

// Engine implements transcribe.Engine using batch recognition with word time
// offsets over the extracted 16 kHz LINEAR16 audio.
type Engine struct {
	client       *speech.Client
	languageCode string
	sampleRate   int32
}

// New creates a Google STT engine.
// Requires the GOOGLE_APPLICATION_CREDENTIALS environment variable.
func New(ctx context.Context) (*Engine, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &Engine{
		client:       c,
		languageCode: "en-US",
		sampleRate:   16000,
	}, nil
}

// Transcribe sends the audio for batch recognition and flattens the word
// info of the top alternative of each result.
func (e *Engine) Transcribe(ctx context.Context, audioPath string) ([]transcribe.Word, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, &transcribe.EngineError{Engine: "google-speech", Err: err}
	}

	resp, err := e.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:              speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:       e.sampleRate,
			LanguageCode:          e.languageCode,
			EnableWordTimeOffsets: true,
			EnableWordConfidence:  true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	})
	if err != nil {
		return nil, &transcribe.EngineError{Engine: "google-speech", Err: err}
	}

	var words []transcribe.Word
	for _, result := range resp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		for _, w := range alt.Words {
			words = append(words, transcribe.Word{
				Text:       w.Word,
				Start:      w.StartTime.AsDuration().Seconds(),
				End:        w.EndTime.AsDuration().Seconds(),
				Confidence: float64(w.Confidence),
			})
		}
	}
	return words, nil
}

// Close releases the underlying client.
func (e *Engine) Close() error {
	return e.client.Close()
}
