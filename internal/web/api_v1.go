package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rook-computer/minihost/internal/state"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type inputResponse struct {
	Button  bool `json:"button"`
	Escape  bool `json:"escape"`
	Encoder int  `json:"encoder"`
}

type clockResponse struct {
	Captured  bool   `json:"captured"`
	Reference string `json:"reference,omitempty"`
	Display   string `json:"display"`
}

type statusResponse struct {
	Phase       string        `json:"phase"`
	ActiveApp   string        `json:"activeApp"`
	Ticks       uint64        `json:"ticks"`
	Transitions uint64        `json:"transitions"`
	LastInput   inputResponse `json:"lastInput"`
	Clock       clockResponse `json:"clock"`
	IP          string        `json:"ip,omitempty"`
	URL         string        `json:"url,omitempty"`
	WiFi        wifiResponse  `json:"wifi"`
}

type wifiResponse struct {
	SSID   string `json:"ssid,omitempty"`
	Joined bool   `json:"joined"`
	Error  string `json:"error,omitempty"`
}

type appResponse struct {
	ID     string `json:"id"`
	Active bool   `json:"active"`
}

func apiV1Router(deps APIV1Deps) http.Handler {
	deps = deps.withDefaults()
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) { handleStatus(w, r, deps) })
	mux.HandleFunc("/apps", func(w http.ResponseWriter, r *http.Request) { handleApps(w, r, deps) })
	return mux
}

func handleStatus(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, newStatusResponse(deps.Status.Snapshot()))
}

func handleApps(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	active := deps.Status.Snapshot().Host.ActiveApp
	ids := deps.Apps.IDs()
	apps := make([]appResponse, 0, len(ids))
	for _, id := range ids {
		apps = append(apps, appResponse{ID: string(id), Active: string(id) == active})
	}
	writeJSON(w, http.StatusOK, apps)
}

func newStatusResponse(st state.State) statusResponse {
	clock := clockResponse{Captured: st.Clock.Captured, Display: st.Clock.Display}
	if st.Clock.Captured {
		clock.Reference = st.Clock.Reference.UTC().Format(time.RFC3339)
	}
	return statusResponse{
		Phase:       st.Phase.String(),
		ActiveApp:   st.Host.ActiveApp,
		Ticks:       st.Host.Ticks,
		Transitions: st.Host.Transitions,
		LastInput: inputResponse{
			Button:  st.Host.LastInput.ButtonPressed,
			Escape:  st.Host.LastInput.EscapePressed,
			Encoder: st.Host.LastInput.EncoderPosition,
		},
		Clock: clock,
		IP:    st.Network.IP,
		URL:   st.Network.URL,
		WiFi:  wifiResponse{SSID: st.WiFi.SSID, Joined: st.WiFi.Joined, Error: st.WiFi.Err},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
