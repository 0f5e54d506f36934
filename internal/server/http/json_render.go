package httpserver

import (
	"net/http"
	"time"
	"unsafe"

	gin "github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/modern-go/reflect2"
)

// timeRFC3339Encoder encodes time.Time values using RFC3339 without fractional seconds.
type timeRFC3339Encoder struct{}

func (e *timeRFC3339Encoder) IsEmpty(ptr unsafe.Pointer) bool {
	return (*time.Time)(ptr).IsZero()
}

func (e *timeRFC3339Encoder) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	stream.WriteString((*time.Time)(ptr).UTC().Format(time.RFC3339))
}

// timeExt registers the time encoder on jsonAPI only.
type timeExt struct{ jsoniter.DummyExtension }

func (e *timeExt) CreateEncoder(typ reflect2.Type) jsoniter.ValEncoder {
	if typ == reflect2.TypeOfPtr((*time.Time)(nil)).Elem() {
		return &timeRFC3339Encoder{}
	}
	return nil
}

// jsonAPI is compatible with encoding/json apart from the time format.
var jsonAPI = func() jsoniter.API {
	api := jsoniter.Config{
		EscapeHTML:             true,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
	}.Froze()
	api.RegisterExtension(&timeExt{})
	return api
}()

// JSONRFC renders JSON through jsonAPI.
type JSONRFC struct{ Data any }

func (r JSONRFC) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	return jsonAPI.NewEncoder(w).Encode(r.Data)
}

func (r JSONRFC) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = []string{"application/json; charset=utf-8"}
	}
}

// JSON is the unified JSON responder; prefer this over c.JSON so the time format applies.
func (s *Server) JSON(c *gin.Context, code int, v any) {
	c.Render(code, JSONRFC{Data: v})
}
