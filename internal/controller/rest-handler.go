package controller

import (
	"errors"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/ytlooper/server/pkg/rest"
	"github.com/ytlooper/server/pkg/ytvideodata"
)

var videoIDRule = validation.Match(regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)).Error("video id must be 11 characters of a-z, A-Z, 0-9, _ or -")

type healthzResponse struct {
	Status     string   `json:"status"`
	Sessions   int      `json:"sessions"`
	SessionIDs []string `json:"session_ids"`
}

func (c controller) Healthz(w http.ResponseWriter, r *http.Request) {
	ids := c.sessionRepo.List()
	rest.WriteJSON(w, http.StatusOK, healthzResponse{
		Status:     "ok",
		Sessions:   len(ids),
		SessionIDs: ids,
	})
}

func (c controller) GetVideo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "video-id")
	if err := validation.Validate(videoID, validation.Required, videoIDRule); err != nil {
		c.logger.InfoContext(r.Context(), "GetVideo", "validate err", err)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"error": err.Error()})
		return
	}

	videoData, err := c.videoInfo.Get(r.Context(), videoID)
	if err != nil {
		c.logger.InfoContext(r.Context(), "GetVideo", "get video data err", err)
		if errors.Is(err, ytvideodata.ErrVideoNotFound) {
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "video not found"})
			return
		}
		rest.WriteJSON(w, http.StatusBadGateway, rest.Envelope{"error": "failed to get video data"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": videoData})
}
