package transport

import (
	"net/http"

	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PaginationMeta describes one page of a paginated listing.
type PaginationMeta struct {
	Page    int  `json:"page"`
	PerPage int  `json:"per_page"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

func newPaginationMeta(page, perPage, total int) PaginationMeta {
	pages := 0
	if perPage > 0 {
		pages = (total + perPage - 1) / perPage
	}
	return PaginationMeta{
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}

// urlParamUUID parses a UUID chi route parameter, responding with 400 on
// failure. The bool reports whether parsing succeeded.
func urlParamUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
