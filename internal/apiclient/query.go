package apiclient

import (
	"strconv"
	"strings"

	"github.com/google/go-querystring/query"
)

// Pagination codifica skip/limit. Solo se envían los valores presentes y
// siempre van primero: skip, luego limit.
type Pagination struct {
	Skip  *int `url:"-"`
	Limit *int `url:"-"`
}

// Paginate construye una Pagination con ambos valores presentes.
func Paginate(skip, limit int) Pagination {
	return Pagination{Skip: &skip, Limit: &limit}
}

func (p Pagination) pagination() Pagination { return p }

type paginated interface {
	pagination() Pagination
}

// buildQuery arma "?skip=..&limit=..&<filtros>". Los filtros se codifican con
// go-querystring (omitempty) y quedan en orden alfabético de clave.
func buildQuery(filters any) string {
	parts := make([]string, 0, 3)
	if pg, ok := filters.(paginated); ok {
		p := pg.pagination()
		if p.Skip != nil {
			parts = append(parts, "skip="+strconv.Itoa(*p.Skip))
		}
		if p.Limit != nil {
			parts = append(parts, "limit="+strconv.Itoa(*p.Limit))
		}
	}
	if filters != nil {
		if values, err := query.Values(filters); err == nil {
			if encoded := values.Encode(); encoded != "" {
				parts = append(parts, encoded)
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

// Int64 devuelve un puntero, para filtros opcionales.
func Int64(v int64) *int64 { return &v }
