package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

type CardHandler struct {
	cardUseCase inbound.CardUseCase
	logger      logger.Logger
}

func NewCardHandler(cardUseCase inbound.CardUseCase, log logger.Logger) *CardHandler {
	return &CardHandler{cardUseCase: cardUseCase, logger: log}
}

func (h *CardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/column/{columnId}/card", h.CreateCard).Methods(http.MethodPost)
	router.HandleFunc("/api/board/{boardId}/card", h.ListCardsByBoard).Methods(http.MethodGet)
	router.HandleFunc("/api/card/{cardId}", h.GetCard).Methods(http.MethodGet)
	router.HandleFunc("/api/card/{cardId}", h.UpdateCard).Methods(http.MethodPatch)
	router.HandleFunc("/api/card/{cardId}", h.DeleteCard).Methods(http.MethodDelete)
	router.HandleFunc("/api/card/{cardId}/worker", h.InviteWorker).Methods(http.MethodPost)
}

func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	columnID, ok := pathID(w, r, "columnId")
	if !ok {
		return
	}
	var req inbound.CreateCardRequest
	if !decode(w, r, &req) {
		return
	}

	card, err := h.cardUseCase.CreateCard(r.Context(), p, columnID, req)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Card created successfully", card)
}

func (h *CardHandler) ListCardsByBoard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	boardID, ok := pathID(w, r, "boardId")
	if !ok {
		return
	}

	cards, err := h.cardUseCase.ListCardsByBoard(r.Context(), p, boardID)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", cards)
}

func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardId")
	if !ok {
		return
	}

	card, err := h.cardUseCase.GetCard(r.Context(), p, cardID)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", card)
}

func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardId")
	if !ok {
		return
	}
	var req inbound.UpdateCardRequest
	if !decode(w, r, &req) {
		return
	}

	card, err := h.cardUseCase.UpdateCard(r.Context(), p, cardID, req)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Card updated", card)
}

func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardId")
	if !ok {
		return
	}

	if err := h.cardUseCase.DeleteCard(r.Context(), p, cardID); err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CardHandler) InviteWorker(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	cardID, ok := pathID(w, r, "cardId")
	if !ok {
		return
	}
	var req inbound.InviteWorkerRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.cardUseCase.InviteWorker(r.Context(), p, cardID, req); err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Worker invited", nil)
}
