package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/missionboard/missionboard/application/port/inbound"
	"github.com/missionboard/missionboard/infrastructure/http/response"
	"github.com/missionboard/missionboard/infrastructure/service/logger"
)

// BoardHandler serves boards and their columns.
type BoardHandler struct {
	boardUseCase  inbound.BoardUseCase
	columnUseCase inbound.ColumnUseCase
	logger        logger.Logger
}

func NewBoardHandler(boardUseCase inbound.BoardUseCase, columnUseCase inbound.ColumnUseCase, log logger.Logger) *BoardHandler {
	return &BoardHandler{
		boardUseCase:  boardUseCase,
		columnUseCase: columnUseCase,
		logger:        log,
	}
}

func (h *BoardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/board", h.CreateBoard).Methods(http.MethodPost)
	router.HandleFunc("/api/board", h.ListBoards).Methods(http.MethodGet)
	router.HandleFunc("/api/board/{boardId}", h.GetBoard).Methods(http.MethodGet)
	router.HandleFunc("/api/board/{boardId}", h.DeleteBoard).Methods(http.MethodDelete)

	router.HandleFunc("/api/board/{boardId}/column", h.CreateColumn).Methods(http.MethodPost)
	router.HandleFunc("/api/board/{boardId}/column", h.ListColumns).Methods(http.MethodGet)
	router.HandleFunc("/api/column/{columnId}/sequence", h.MoveColumn).Methods(http.MethodPatch)
	router.HandleFunc("/api/column/{columnId}", h.DeleteColumn).Methods(http.MethodDelete)
}

func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req inbound.CreateBoardRequest
	if !decode(w, r, &req) {
		return
	}

	board, err := h.boardUseCase.CreateBoard(r.Context(), p, req)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Board created successfully", board)
}

func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	boards, err := h.boardUseCase.ListBoards(r.Context(), p)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", boards)
}

func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	boardID, ok := pathID(w, r, "boardId")
	if !ok {
		return
	}

	board, err := h.boardUseCase.GetBoard(r.Context(), p, boardID)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", board)
}

func (h *BoardHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	boardID, ok := pathID(w, r, "boardId")
	if !ok {
		return
	}

	if err := h.boardUseCase.DeleteBoard(r.Context(), p, boardID); err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BoardHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	boardID, ok := pathID(w, r, "boardId")
	if !ok {
		return
	}
	var req inbound.CreateColumnRequest
	if !decode(w, r, &req) {
		return
	}

	column, err := h.columnUseCase.CreateColumn(r.Context(), p, boardID, req)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusCreated, "Column created successfully", column)
}

func (h *BoardHandler) ListColumns(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	boardID, ok := pathID(w, r, "boardId")
	if !ok {
		return
	}

	columns, err := h.columnUseCase.ListColumns(r.Context(), p, boardID)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "success", columns)
}

func (h *BoardHandler) MoveColumn(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	columnID, ok := pathID(w, r, "columnId")
	if !ok {
		return
	}
	var req inbound.MoveColumnRequest
	if !decode(w, r, &req) {
		return
	}

	column, err := h.columnUseCase.MoveColumn(r.Context(), p, columnID, req)
	if err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	response.Success(w, http.StatusOK, "Column moved", column)
}

func (h *BoardHandler) DeleteColumn(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	columnID, ok := pathID(w, r, "columnId")
	if !ok {
		return
	}

	if err := h.columnUseCase.DeleteColumn(r.Context(), p, columnID); err != nil {
		response.Fail(r.Context(), w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
