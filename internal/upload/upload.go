package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"zerosugar/explorer/internal/client"
	"zerosugar/explorer/internal/domain"
)

var (
	ErrMissingCategory = errors.New("category is not selected")
	ErrMissingFile     = errors.New("image file is not selected")
	ErrTooManyFiles    = errors.New("more than one image file selected")
	ErrNoPrediction    = errors.New("prediction returned no candidates")
)

// Alert texts shown to the user.
const (
	MissingCategoryMessage = "카테고리를 선택해주세요."
	MissingFileMessage     = "이미지 파일을 선택해주세요."
	TooManyFilesMessage    = "이미지 파일은 한 장만 선택해주세요."
	NoPredictionMessage    = "예측 결과를 찾지 못했습니다."
	FailureMessage         = "이미지 분석 중 오류가 발생했습니다."
)

const (
	IdleLabel = "분석하기"
	BusyLabel = "분석 중..."
)

// Predictor is the part of the catalog client the flow needs.
type Predictor interface {
	Predict(ctx context.Context, req client.PredictRequest) (*domain.PredictResponse, error)
}

type File struct {
	Name        string
	ContentType string
	Content     io.Reader
}

// Submission is what the upload form holds when confirm is pressed.
type Submission struct {
	CategoryID string
	Files      []File
}

// Validate checks the form locally. No request is made when it fails.
func (s Submission) Validate() (int, File, error) {
	raw := strings.TrimSpace(s.CategoryID)
	if raw == "" {
		return 0, File{}, ErrMissingCategory
	}
	categoryID, err := strconv.Atoi(raw)
	if err != nil {
		return 0, File{}, ErrMissingCategory
	}

	switch len(s.Files) {
	case 0:
		return 0, File{}, ErrMissingFile
	case 1:
		return categoryID, s.Files[0], nil
	default:
		return 0, File{}, ErrTooManyFiles
	}
}

// Button models the confirm button over one Flow.Submit: disabled with the
// busy label while the prediction request runs, restored when Submit
// returns. It is not the rendered state; a page built after Submit always
// shows the restored button, and the browser disables the real button on
// submit.
type Button struct {
	mu       sync.Mutex
	disabled bool
	label    string
}

func NewButton() *Button {
	return &Button{label: IdleLabel}
}

func (b *Button) State() (disabled bool, label string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.disabled, b.label
}

// busy disables and relabels the button and returns the restore func.
func (b *Button) busy() func() {
	b.mu.Lock()
	prev := b.label
	b.disabled = true
	b.label = BusyLabel
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		b.disabled = false
		b.label = prev
		b.mu.Unlock()
	}
}

type Flow struct {
	predictor Predictor
	button    *Button
}

func NewFlow(predictor Predictor, button *Button) *Flow {
	if button == nil {
		button = NewButton()
	}
	return &Flow{
		predictor: predictor,
		button:    button,
	}
}

func (f *Flow) Button() *Button {
	return f.button
}

// Submit validates the form, sends it to the prediction endpoint and returns
// the candidates. The button stays disabled only while the request runs.
func (f *Flow) Submit(ctx context.Context, sub Submission) ([]domain.Prediction, error) {
	categoryID, file, err := sub.Validate()
	if err != nil {
		return nil, err
	}

	restore := f.button.busy()
	defer restore()

	resp, err := f.predictor.Predict(ctx, client.PredictRequest{
		CategoryID:  categoryID,
		FileName:    file.Name,
		ContentType: file.ContentType,
		File:        file.Content,
	})
	if err != nil {
		log.Errorf("❌ Prediction failed for category %d: %v", categoryID, err)
		return nil, fmt.Errorf("prediction request: %w", err)
	}

	if resp == nil || len(resp.Results) == 0 {
		log.Warnf("⚠️ Prediction for category %d returned no candidates", categoryID)
		return nil, ErrNoPrediction
	}

	return resp.Results, nil
}

// Message turns a Submit error into the alert text.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCategory):
		return MissingCategoryMessage
	case errors.Is(err, ErrMissingFile):
		return MissingFileMessage
	case errors.Is(err, ErrTooManyFiles):
		return TooManyFilesMessage
	case errors.Is(err, ErrNoPrediction):
		return NoPredictionMessage
	default:
		return FailureMessage
	}
}
