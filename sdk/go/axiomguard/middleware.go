package axiomguard

import (
	"encoding/json"
	"net/http"

	"github.com/axiomframework/axiomguard/internal/model"
)

// Request headers consumed by Middleware.
const (
	HeaderComponent  = "X-Axiom-Component"
	HeaderRole       = "X-Axiom-Role"
	HeaderCapability = "X-Axiom-Capability"
)

// Middleware returns an http.Handler that checks the capability access
// declared in request headers before passing to next. Requests that
// declare no capability pass through unchecked. Denied requests
// receive a 403 with a JSON body.
func (c *Client) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capability := r.Header.Get(HeaderCapability)
		if capability == "" {
			next.ServeHTTP(w, r)
			return
		}

		component := componentFromRequest(r)
		err := c.engine.EnforceCapabilityAccess(
			CapabilityID(capability), component, model.CaptureLocation(1))
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"blocked":    true,
				"capability": capability,
				"component":  component.Name,
				"reason":     Reason(err),
				"policy":     string(c.engine.Config().Policy),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// componentFromRequest maps the declaration headers to a Component. A
// missing role stays empty, which every check denies.
func componentFromRequest(r *http.Request) Component {
	component := Component{
		Name: r.Header.Get(HeaderComponent),
		Role: Role(r.Header.Get(HeaderRole)),
	}
	if component.Name == "" {
		component.Name = "http:" + r.URL.Path
	}
	return component
}
