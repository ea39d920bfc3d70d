package server

import (
	"bytes"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"zerosugar/explorer/internal/client"
	"zerosugar/explorer/internal/export"
	"zerosugar/explorer/internal/nav"
	"zerosugar/explorer/internal/render"
	"zerosugar/explorer/internal/service"
	"zerosugar/explorer/internal/upload"
)

const (
	loadFailedMessage     = "데이터를 불러오지 못했습니다."
	detailMissingMessage  = "제품 정보가 존재하지 않습니다."
	detailFailedMessage   = "제품 정보를 불러오는 데 실패했습니다."
	categoryPickTitle     = "카테고리 선택"
	categoryPickMessage   = "상단 카테고리 메뉴에서 카테고리를 선택해 주세요."
	productsTitle         = "전체 제품"
	detailTitle           = "제품 상세"
	predictTitle          = "분석 결과"
	uploadOpenQueryValue  = "1"
	xlsxContentType       = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportFileDisposition = `attachment; filename="products.xlsx"`
)

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := s.loadPage(w, r, nav.SectionProducts)
	if !ok {
		return
	}

	pageID := s.pages.Put(page)
	q := r.URL.Query().Get("q")
	open := r.URL.Query().Get("upload") == uploadOpenQueryValue

	s.writePage(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.renderer.Products(buf, s.productsView(page, pageID, q, s.uploadView(page, pageID, open, "", 0, upload.NewButton())))
	})
}

// handleSearch re-renders the whole grid for the current search text. It
// filters the snapshot the page was rendered from and only fetches the
// catalog again once that snapshot has expired.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, ok := s.pages.Get(query.Get("page"))
	if !ok {
		log.Debugf("No snapshot for page %q, loading catalog", query.Get("page"))

		var err error
		page, err = s.service.LoadPage(r.Context())
		if err != nil {
			http.Error(w, loadFailedMessage, http.StatusBadGateway)
			return
		}
	}

	result := page.Search(query.Get("q"))

	s.writePage(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.renderer.GridFragment(buf, s.renderer.Grid(result.Products))
	})
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	page, ok := s.loadPage(w, r, nav.SectionCategory)
	if !ok {
		return
	}

	result := page.Category(r.URL.Query().Get("category_id"))

	view := render.CategoryView{
		Layout: render.Layout{
			Title: categoryPickTitle,
			Nav:   page.Nav(nav.SectionCategory),
		},
		Heading:     categoryPickTitle,
		Description: categoryPickMessage,
	}
	if result.Category != nil {
		view.Title = result.Category.Name
		view.Heading = result.Category.Name
		view.Description = ""
		view.Grid = s.renderer.Grid(result.Products)
	}

	s.writePage(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.renderer.Category(buf, view)
	})
}

func (s *Server) handleSweetener(w http.ResponseWriter, r *http.Request) {
	page, ok := s.loadPage(w, r, nav.SectionSweetener)
	if !ok {
		return
	}

	result := page.Sweetener(r.URL.Query().Get("name"))

	s.writePage(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.renderer.Sweetener(buf, render.SweetenerView{
			Layout: render.Layout{
				Title: result.Name,
				Nav:   page.Nav(nav.SectionSweetener),
			},
			Name:        result.Name,
			Description: result.Description,
			Grid:        s.renderer.Grid(result.Products),
		})
	})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.service.LoadDetail(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		status, message := http.StatusBadGateway, detailFailedMessage
		if errors.Is(err, service.ErrMissingProductID) || client.IsNotFound(err) {
			status, message = http.StatusNotFound, detailMissingMessage
		}

		s.writePage(w, status, func(buf *bytes.Buffer) error {
			return s.renderer.Detail(buf, render.DetailView{
				Layout: render.Layout{
					Title: detailTitle,
					Nav:   s.service.Nav(nav.SectionProducts),
				},
				Name: message,
			})
		})
		return
	}

	product := detail.Product
	s.writePage(w, http.StatusOK, func(buf *bytes.Buffer) error {
		return s.renderer.Detail(buf, render.DetailView{
			Layout: render.Layout{
				Title: product.Name,
				Nav:   detail.Nav(),
			},
			Found:     true,
			Name:      product.Name,
			ImageURL:  s.renderer.ImageURL(product.ImageURL),
			Tags:      render.Tags(product.SweetenerNames()),
			Nutrition: product.Nutrition.Rows(),
		})
	})
}

// handleExport writes the product list filtered the same way the pages
// filter it: by search text, then category, then sweetener.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	page, err := s.service.LoadPage(r.Context())
	if err != nil {
		http.Error(w, loadFailedMessage, http.StatusBadGateway)
		return
	}

	query := r.URL.Query()
	products := page.Filter(service.FilterOptions{
		Query:      query.Get("q"),
		CategoryID: query.Get("category_id"),
		Sweetener:  query.Get("name"),
	})

	var buf bytes.Buffer
	if err := export.Products(&buf, products, page.Categories, s.renderer.ImageURL); err != nil {
		log.Errorf("❌ Failed to export products: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", exportFileDisposition)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// loadPage fetches the catalog snapshot, rendering the error page when any
// of the three lists fails.
func (s *Server) loadPage(w http.ResponseWriter, r *http.Request, active nav.Section) (*service.Page, bool) {
	page, err := s.service.LoadPage(r.Context())
	if err != nil {
		s.writePage(w, http.StatusBadGateway, func(buf *bytes.Buffer) error {
			return s.renderer.Error(buf, render.ErrorView{
				Layout: render.Layout{
					Title: loadFailedMessage,
					Nav:   s.service.Nav(active),
				},
				Message: errorMessage(err),
			})
		})
		return nil, false
	}
	return page, true
}

// productsView builds the products page. A nil page renders the form alone,
// for submissions whose snapshot is gone.
func (s *Server) productsView(page *service.Page, pageID, q string, uv render.UploadView) render.ProductsView {
	view := render.ProductsView{
		Layout: render.Layout{
			Title: productsTitle,
			Nav:   s.service.Nav(nav.SectionProducts),
		},
		PageID: pageID,
		Query:  q,
		Upload: uv,
	}
	if page == nil {
		return view
	}

	result := page.Search(q)
	view.Nav = page.Nav(nav.SectionProducts)
	view.HasText = result.Query.HasText()
	view.Grid = s.renderer.Grid(result.Products)
	return view
}

func (s *Server) uploadView(page *service.Page, pageID string, open bool, alert string, selected int, button *upload.Button) render.UploadView {
	disabled, label := button.State()
	uv := render.UploadView{
		PageID:         pageID,
		Open:           open,
		Alert:          alert,
		Selected:       selected,
		ButtonDisabled: disabled,
		ButtonLabel:    label,
	}
	if page != nil {
		uv.Categories = page.Categories
	}
	return uv
}

// writePage renders into a buffer first so a template failure never leaves a
// half-written page behind.
func (s *Server) writePage(w http.ResponseWriter, status int, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		log.Errorf("❌ Failed to render page: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorMessage prefers the API's own error text.
func errorMessage(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return loadFailedMessage + " (" + apiErr.Message() + ")"
	}
	return loadFailedMessage
}
