// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"zuva/internal/content"
	"zuva/internal/identity"
	"zuva/internal/media"
	"zuva/internal/middleware"
	"zuva/internal/models"
	"zuva/internal/render"
	"zuva/internal/session"
)

const (
	newsPath = "/admin/news"

	// maxArticleMemory is how much of a multipart article form is held in
	// memory; the rest spills to temporary files.
	maxArticleMemory = media.MaxSize + 1<<20

	msgUploadFailed = "Image upload failed. Article not saved."
)

// articleForm is the article editor's input, kept as typed so a failed
// save can re-render exactly what the admin entered.
type articleForm struct {
	Title       string `form:"title" validate:"required,max=300"`
	Excerpt     string `form:"excerpt" validate:"required,max=1000"`
	Content     string `form:"content" validate:"required,max=100000"`
	ImageURL    string `form:"image_url" validate:"omitempty,max=2048,http_url"`
	IsPublished bool   `form:"is_published"`
}

func articleFormFrom(r *http.Request) articleForm {
	return articleForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Excerpt:     strings.TrimSpace(r.FormValue("excerpt")),
		Content:     strings.TrimSpace(r.FormValue("content")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		IsPublished: r.FormValue("is_published") == "true",
	}
}

func articleFormOf(a *models.Article) articleForm {
	f := articleForm{
		Title:       a.Title,
		Excerpt:     a.Excerpt,
		Content:     a.Content,
		IsPublished: a.IsPublished,
	}
	if a.ImageURL != nil {
		f.ImageURL = *a.ImageURL
	}
	return f
}

// authorOf builds the embedded author from the signed-in admin.
func authorOf(p *identity.Principal) models.Author {
	if p == nil {
		return models.Author{}
	}
	a := models.Author{Email: p.Email, Name: p.Name}
	if a.Name == "" {
		a.Name = "Admin"
	}
	if p.Picture != "" {
		photo := p.Picture
		a.PhotoURL = &photo
	}
	return a
}

// publishMessage is the flash shown after a successful save.
func publishMessage(res content.PublishResult, created bool) string {
	switch {
	case res.Announced && res.NotifyErr == nil:
		return "Article published and notification sent!"
	case res.Announced:
		return "Article published (notification failed - check logs)"
	case created:
		return "Draft saved!"
	default:
		return "Article updated!"
	}
}

// NewsList renders every article, newest first.
func (a *Admin) NewsList(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	articles, err := a.articles.ListAll(r.Context())
	if err != nil {
		slog.Error("list articles failed", "error", err)
		data["Error"] = "Failed to load news"
	}
	data["Articles"] = articles

	a.renderer.Page(w, r, "news_list", &render.PageData{
		Title:   "News",
		Section: "news",
		Data:    data,
	})
}

// NewsNew renders an empty article form. New articles default to published.
func (a *Admin) NewsNew(w http.ResponseWriter, r *http.Request) {
	a.renderArticleForm(w, r, http.StatusOK, uuid.Nil, articleForm{IsPublished: true}, nil, "")
}

// NewsShow renders one article with its markdown body.
func (a *Admin) NewsShow(w http.ResponseWriter, r *http.Request) {
	article, ok := a.loadArticle(w, r)
	if !ok {
		return
	}
	a.renderer.Page(w, r, "news_detail", &render.PageData{
		Title:   article.Title,
		Section: "news",
		Data:    map[string]any{"Article": article},
	})
}

// NewsEdit renders the form for an existing article.
func (a *Admin) NewsEdit(w http.ResponseWriter, r *http.Request) {
	article, ok := a.loadArticle(w, r)
	if !ok {
		return
	}
	a.renderArticleForm(w, r, http.StatusOK, article.ID, articleFormOf(article), nil, "")
}

// NewsCreate saves a new article: validate, upload the attached image if
// any, resolve the final image URL, then store through the publisher which
// announces it when it is created published.
func (a *Admin) NewsCreate(w http.ResponseWriter, r *http.Request) {
	if err := parseArticleRequest(r); err != nil {
		slog.Warn("article form rejected", "error", err)
		a.renderArticleForm(w, r, http.StatusRequestEntityTooLarge, uuid.Nil, articleFormFrom(r), nil, msgUploadFailed)
		return
	}

	form := articleFormFrom(r)
	if errs := validateForm(form); errs != nil {
		a.renderArticleForm(w, r, http.StatusUnprocessableEntity, uuid.Nil, form, errs, "")
		return
	}

	uploaded, err := a.uploadImage(r)
	if err != nil {
		slog.Error("article image upload failed", "error", err)
		a.renderArticleForm(w, r, uploadStatus(err), uuid.Nil, form, nil, msgUploadFailed)
		return
	}
	image := media.ResolveImage(uploaded, form.ImageURL)

	res, err := a.publisher.Create(r.Context(), models.ArticleInput{
		Title:       form.Title,
		Excerpt:     form.Excerpt,
		Content:     form.Content,
		ImageURL:    &image,
		Author:      authorOf(middleware.PrincipalFromCtx(r.Context())),
		IsPublished: form.IsPublished,
	})
	if err != nil {
		a.articleSaveFailed(w, r, uuid.Nil, form, image, err)
		return
	}

	slog.Info("article created", "id", res.ID, "published", res.Published())
	a.sessions.SetFlash(w, session.FlashSuccess, publishMessage(res, true))
	http.Redirect(w, r, newsPath, http.StatusSeeOther)
}

// NewsUpdate saves changes to an existing article. Moving it from draft to
// published announces it; every other save is silent.
func (a *Admin) NewsUpdate(w http.ResponseWriter, r *http.Request) {
	article, ok := a.loadArticle(w, r)
	if !ok {
		return
	}

	if err := parseArticleRequest(r); err != nil {
		slog.Warn("article form rejected", "id", article.ID, "error", err)
		a.renderArticleForm(w, r, http.StatusRequestEntityTooLarge, article.ID, articleFormFrom(r), nil, msgUploadFailed)
		return
	}

	form := articleFormFrom(r)
	if errs := validateForm(form); errs != nil {
		a.renderArticleForm(w, r, http.StatusUnprocessableEntity, article.ID, form, errs, "")
		return
	}

	uploaded, err := a.uploadImage(r)
	if err != nil {
		slog.Error("article image upload failed", "id", article.ID, "error", err)
		a.renderArticleForm(w, r, uploadStatus(err), article.ID, form, nil, msgUploadFailed)
		return
	}
	existing := form.ImageURL
	if existing == "" && article.ImageURL != nil {
		existing = *article.ImageURL
	}
	image := media.ResolveImage(uploaded, existing)

	res, err := a.publisher.Update(r.Context(), article.ID, models.ArticlePatch{
		Title:       &form.Title,
		Excerpt:     &form.Excerpt,
		Content:     &form.Content,
		ImageURL:    &image,
		IsPublished: &form.IsPublished,
	})
	if err != nil {
		a.articleSaveFailed(w, r, article.ID, form, image, err)
		return
	}

	slog.Info("article updated", "id", res.ID, "published", res.Published(), "announced", res.Announced)
	a.sessions.SetFlash(w, session.FlashSuccess, publishMessage(res, false))
	http.Redirect(w, r, newsPath, http.StatusSeeOther)
}

// NewsDelete removes an article. Deleting a missing article succeeds.
func (a *Admin) NewsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	flash := session.Flash{Kind: session.FlashSuccess, Message: "Article deleted"}
	if err := a.articles.Delete(r.Context(), id); err != nil {
		slog.Error("delete article failed", "id", id, "error", err)
		flash = session.Flash{Kind: session.FlashError, Message: "Failed to delete article"}
	}
	a.deleted(w, r, "news_list", newsPath, flash)
}

// NewsPreview renders posted markdown for the editor's preview tab.
func (a *Admin) NewsPreview(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "news_preview", &render.PageData{
		Title:   "Preview",
		Section: "news",
		Data:    map[string]any{"Source": r.FormValue("content")},
	})
}

// loadArticle resolves the {id} parameter, answering 404 itself when the
// article does not exist.
func (a *Admin) loadArticle(w http.ResponseWriter, r *http.Request) (*models.Article, bool) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	article, err := a.articles.Get(r.Context(), id)
	if err != nil {
		slog.Error("load article failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if article == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return article, true
}

func (a *Admin) articleSaveFailed(w http.ResponseWriter, r *http.Request, id uuid.UUID, form articleForm, image string, err error) {
	form.ImageURL = image
	switch {
	case errors.Is(err, content.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, content.ErrInvalid):
		a.renderArticleForm(w, r, http.StatusUnprocessableEntity, id, form, nil, err.Error())
	default:
		slog.Error("save article failed", "id", id, "error", err)
		a.renderArticleForm(w, r, http.StatusInternalServerError, id, form, nil, "Failed to save article")
	}
}

func (a *Admin) renderArticleForm(w http.ResponseWriter, r *http.Request, status int, id uuid.UUID, form articleForm, errs map[string]string, formErr string) {
	if errs == nil {
		errs = map[string]string{}
	}
	title, action := "Create Article", newsPath
	if id != uuid.Nil {
		title, action = "Edit Article", newsPath+"/"+id.String()
	}

	a.renderer.PageStatus(w, r, status, "news_form", &render.PageData{
		Title:   title,
		Section: "news",
		Data: map[string]any{
			"Form":    form,
			"Errors":  errs,
			"Error":   formErr,
			"Action":  action,
			"Editing": id != uuid.Nil,
		},
	})
}

// parseArticleRequest parses the editor's multipart form. Url-encoded
// bodies are accepted too and simply carry no file.
func parseArticleRequest(r *http.Request) error {
	err := r.ParseMultipartForm(maxArticleMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return err
	}
	return nil
}

// uploadImage stores the attached image, if any, and returns its URL.
func (a *Admin) uploadImage(r *http.Request) (string, error) {
	if r.MultipartForm == nil {
		return "", nil
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 || files[0].Size == 0 {
		return "", nil
	}

	f, err := media.ReadMultipart(files[0])
	if err != nil {
		return "", err
	}
	return a.uploader.Upload(r.Context(), f)
}

// uploadStatus maps an upload failure to the status of the re-rendered form.
func uploadStatus(err error) int {
	switch {
	case errors.Is(err, media.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, media.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, media.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
