package server

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"zerosugar/explorer/internal/nav"
	"zerosugar/explorer/internal/render"
	"zerosugar/explorer/internal/service"
	"zerosugar/explorer/internal/upload"
)

const maxUploadMemory = 10 << 20

// handlePredict validates the form before anything else, so a form that
// cannot be sent never touches the catalog API. The page snapshot the form
// was rendered from supplies the categories and product lookups.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	sub, pageID, closeFiles, err := readSubmission(r)
	if err != nil {
		log.Warnf("⚠️ Unreadable upload form: %v", err)
		http.Error(w, "invalid upload form", http.StatusBadRequest)
		return
	}
	defer closeFiles()

	page, ok := s.pages.Get(pageID)
	if !ok {
		page, pageID = nil, ""
	}

	if _, _, err := sub.Validate(); err != nil {
		s.writeUploadForm(w, http.StatusBadRequest, page, pageID, sub, err, upload.NewButton())
		return
	}

	if page == nil {
		if page, ok = s.loadPage(w, r, nav.SectionProducts); !ok {
			return
		}
		pageID = s.pages.Put(page)
	}

	flow := upload.NewFlow(s.predictor, upload.NewButton())
	results, err := flow.Submit(r.Context(), sub)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, upload.ErrNoPrediction) {
			status = http.StatusOK
		}
		s.writeUploadForm(w, status, page, pageID, sub, err, flow.Button())
		return
	}

	cards := upload.Rank(results, page.Product)
	log.Infof("🔍 Prediction returned %d candidates", len(cards))

	s.writePage(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.renderer.Predict(buf, render.PredictView{
			Layout: render.Layout{
				Title: predictTitle,
				Nav:   page.Nav(nav.SectionProducts),
			},
			Results: s.renderer.PredictCards(cards),
		})
	})
}

// writeUploadForm re-renders the products page with the upload form open and
// the alert for err. page may be nil.
func (s *Server) writeUploadForm(w http.ResponseWriter, status int, page *service.Page, pageID string, sub upload.Submission, err error, button *upload.Button) {
	selected, _ := strconv.Atoi(strings.TrimSpace(sub.CategoryID))
	uv := s.uploadView(page, pageID, true, upload.Message(err), selected, button)

	s.writePage(w, status, func(buf *bytes.Buffer) error {
		return s.renderer.Products(buf, s.productsView(page, pageID, "", uv))
	})
}

// readSubmission collects the category, the page id and every selected
// file. A body that is not multipart is read as a plain form without files.
func readSubmission(r *http.Request) (upload.Submission, string, func(), error) {
	noop := func() {}

	err := r.ParseMultipartForm(maxUploadMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return upload.Submission{}, "", noop, err
	}

	sub := upload.Submission{CategoryID: r.FormValue("category_id")}
	pageID := r.FormValue("page_id")
	if r.MultipartForm == nil {
		return sub, pageID, noop, nil
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range r.MultipartForm.File["file"] {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return upload.Submission{}, "", noop, err
		}
		opened = append(opened, f)

		sub.Files = append(sub.Files, upload.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}

	return sub, pageID, closeAll, nil
}
