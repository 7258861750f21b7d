package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shopd/internal/catalog"
)

const maxMediaUploadBytes = 8 << 20

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.catalog.ListProducts(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"products": products})
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondBadRequest(w, errors.New("invalid product id"))
		return
	}

	product, err := a.catalog.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.ProductInput
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	product, err := a.catalog.CreateProduct(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"product": product})
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondBadRequest(w, errors.New("invalid product id"))
		return
	}

	var req catalog.ProductInput
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	product, err := a.catalog.UpdateProduct(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"product": product})
}

func (a *API) handleAddVariant(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondBadRequest(w, errors.New("invalid product id"))
		return
	}

	var req catalog.VariantInput
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, err)
		return
	}

	variant, err := a.catalog.AddVariant(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"variant": variant})
}

func (a *API) handleAttachMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		respondBadRequest(w, errors.New("invalid product id"))
		return
	}

	if err := r.ParseMultipartForm(maxMediaUploadBytes); err != nil {
		respondBadRequest(w, errors.New("invalid multipart upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondBadRequest(w, errors.New("file field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxMediaUploadBytes))
	if err != nil {
		respondBadRequest(w, errors.New("read upload"))
		return
	}

	mediaRow, err := a.catalog.AttachMedia(r.Context(), id, data, header.Filename)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"media": mediaRow})
}

func (a *API) handleRemoveMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "mediaID"))
	if err != nil {
		respondBadRequest(w, errors.New("invalid media id"))
		return
	}

	if err := a.catalog.RemoveMedia(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"message": "media removed"})
}
