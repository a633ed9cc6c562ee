package handler

import (
	"net/http"

	"github.com/oakhaus/furnish/internal/domain/catalog"
	"github.com/oakhaus/furnish/internal/domain/order"
)

// registerEnums mounts the enumeration-lookup endpoints clients use to
// populate pickers without hardcoding the valid values.
func (h *Handler) registerEnums(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/enums/payment-methods", func(w http.ResponseWriter, _ *http.Request) {
		methods := order.PaymentMethods()
		out := make([]string, len(methods))
		for i, m := range methods {
			out[i] = string(m)
		}
		respondJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("GET /api/enums/furniture-kinds", func(w http.ResponseWriter, _ *http.Request) {
		kinds := catalog.Kinds()
		out := make([]string, len(kinds))
		for i, k := range kinds {
			out[i] = string(k)
		}
		respondJSON(w, http.StatusOK, out)
	})
	mux.HandleFunc("GET /api/enums/chair-materials", enumHandler(catalog.ChairMaterials))
	mux.HandleFunc("GET /api/enums/table-shapes", enumHandler(catalog.TableShapes))
	mux.HandleFunc("GET /api/enums/furniture-sizes", enumHandler(catalog.FurnitureSizes))
	mux.HandleFunc("GET /api/enums/sofa-colors", enumHandler(catalog.SofaColors))
	mux.HandleFunc("GET /api/enums/bed-sizes", enumHandler(catalog.BedSizes))
}

func enumHandler(values []string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, values)
	}
}
