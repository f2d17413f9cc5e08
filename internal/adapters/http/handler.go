package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/randomtoy/arcana-go/internal/app"
	"github.com/randomtoy/arcana-go/internal/domain"
	"github.com/randomtoy/arcana-go/internal/ports"
)

type Handler struct {
	svc     *app.ReadingService
	catalog ports.CardCatalog
	spreads ports.SpreadStore
}

func NewHandler(svc *app.ReadingService, catalog ports.CardCatalog, spreads ports.SpreadStore) *Handler {
	return &Handler{svc: svc, catalog: catalog, spreads: spreads}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	e.GET("/v1/cards", h.ListCards)
	e.GET("/v1/cards/:id", h.GetCard)
	e.GET("/v1/spreads", h.ListSpreads)
	e.GET("/v1/spreads/:id", h.GetSpread)

	e.POST("/v1/readings/daily", h.StartDaily)
	e.POST("/v1/readings/spread", h.StartSpread)
	e.GET("/v1/readings/:id", h.GetReading)
	e.POST("/v1/readings/:id/draw", h.DrawOne)
	e.POST("/v1/readings/:id/draw-all", h.DrawAll)
	e.POST("/v1/readings/:id/reveal", h.Reveal)
	e.POST("/v1/readings/:id/reset", h.Reset)
	e.PUT("/v1/readings/:id/note", h.SetNote)
	e.PUT("/v1/readings/:id/title", h.SetTitle)
	e.POST("/v1/readings/:id/save", h.Save)
	e.POST("/v1/readings/:id/interpretation", h.Interpret)

	e.GET("/v1/journal", h.ListJournal)
	e.GET("/v1/journal/:id", h.GetJournalEntry)
	e.GET("/v1/journal/daily/:date", h.GetJournalByDate)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListCards(c echo.Context) error {
	cards, err := h.catalog.AllCards(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	lang := langParam(c)
	out := make([]CardResponse, len(cards))
	for i, card := range cards {
		out[i] = toCardResponse(card, "", lang)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCard(c echo.Context) error {
	card, err := h.catalog.CardByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toCardResponse(card, "", langParam(c)))
}

func (h *Handler) ListSpreads(c echo.Context) error {
	spreads, err := h.spreads.ListSpreads(c.Request().Context())
	if err != nil {
		return mapError(c, err)
	}
	lang := langParam(c)
	out := make([]SpreadResponse, len(spreads))
	for i, tmpl := range spreads {
		out[i] = toSpreadResponse(tmpl, lang)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetSpread(c echo.Context) error {
	tmpl, err := h.spreads.SpreadByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSpreadResponse(tmpl, langParam(c)))
}

func (h *Handler) StartDaily(c echo.Context) error {
	var req startDailyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	date := time.Now()
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
		}
		date = parsed
	}
	reading, err := h.svc.StartDailyReading(c.Request().Context(), date)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toReadingResponse(reading, langParam(c)))
}

func (h *Handler) StartSpread(c echo.Context) error {
	var req startSpreadRequest
	if err := c.Bind(&req); err != nil || req.SpreadID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "spread_id is required"})
	}
	reading, err := h.svc.StartSpreadReading(c.Request().Context(), req.SpreadID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toReadingResponse(reading, langParam(c)))
}

func (h *Handler) GetReading(c echo.Context) error {
	reading, err := h.svc.GetReading(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(reading, langParam(c)))
}

func (h *Handler) DrawOne(c echo.Context) error {
	var req slotRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	reading, err := h.svc.DrawOne(c.Request().Context(), c.Param("id"), req.Slot)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(reading, langParam(c)))
}

func (h *Handler) DrawAll(c echo.Context) error {
	reading, err := h.svc.DrawAll(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(reading, langParam(c)))
}

func (h *Handler) Reveal(c echo.Context) error {
	var req slotRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	reading, err := h.svc.Reveal(c.Request().Context(), c.Param("id"), req.Slot)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(reading, langParam(c)))
}

func (h *Handler) Reset(c echo.Context) error {
	reading, err := h.svc.Reset(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(reading, langParam(c)))
}

func (h *Handler) SetNote(c echo.Context) error {
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	reading, err := h.svc.SetNote(c.Request().Context(), c.Param("id"), req.Slot, req.Text)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(reading, langParam(c)))
}

func (h *Handler) SetTitle(c echo.Context) error {
	var req titleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	reading, err := h.svc.SetTitle(c.Request().Context(), c.Param("id"), req.Title)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingResponse(reading, langParam(c)))
}

func (h *Handler) Save(c echo.Context) error {
	entry, err := h.svc.Save(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toEntryResponse(entry))
}

func (h *Handler) Interpret(c echo.Context) error {
	var req interpretRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}
	if len(req.Question) > 500 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "question must be at most 500 characters"})
	}
	out, err := h.svc.Interpret(c.Request().Context(), c.Param("id"), req.Question, req.Lang)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, InterpretationResponse{
		Text:       out.Text,
		Style:      out.Style,
		Disclaimer: out.Disclaimer,
		Model:      out.Model,
	})
}

func (h *Handler) ListJournal(c echo.Context) error {
	kind := domain.ReadingKind(c.QueryParam("kind"))
	if kind != "" && kind != domain.KindDaily && kind != domain.KindSpread {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "kind must be daily or spread"})
	}
	entries, err := h.svc.Journal().List(c.Request().Context(), kind)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]JournalEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = toEntryResponse(entry)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetJournalEntry(c echo.Context) error {
	entry, err := h.svc.Journal().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toEntryResponse(entry))
}

func (h *Handler) GetJournalByDate(c echo.Context) error {
	date, err := time.ParseInLocation("2006-01-02", c.Param("date"), time.UTC)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "date must be YYYY-MM-DD"})
	}
	entry, err := h.svc.Journal().GetByDate(c.Request().Context(), date)
	if err != nil {
		return mapError(c, err)
	}
	if entry == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "no daily entry for that date"})
	}
	return c.JSON(http.StatusOK, toEntryResponse(*entry))
}

func langParam(c echo.Context) string {
	if c.QueryParam("lang") == "ru" {
		return "ru"
	}
	return "en"
}

func toCardResponse(card domain.Card, orientation domain.Orientation, lang string) CardResponse {
	out := CardResponse{
		ID:          card.ID,
		Name:        card.Name,
		Keywords:    card.Keywords,
		Meaning:     card.Meaning,
		Image:       card.Image,
		Orientation: orientation,
	}
	if lang == "ru" {
		out.Name = card.NameRU
		out.Keywords = card.KeywordsRU
		out.Meaning = card.MeaningRU
	}
	return out
}

func toSpreadResponse(tmpl domain.SpreadTemplate, lang string) SpreadResponse {
	out := SpreadResponse{
		ID:        tmpl.ID,
		Name:      tmpl.Name,
		CardCount: tmpl.CardCount,
		IsPremium: tmpl.IsPremium,
		Positions: make([]SpreadPositionResponse, len(tmpl.Positions)),
	}
	if lang == "ru" {
		out.Name = tmpl.NameRU
	}
	for i, pos := range tmpl.Positions {
		name := pos.Name
		if lang == "ru" {
			name = pos.NameRU
		}
		out.Positions[i] = SpreadPositionResponse{Index: i, Name: name}
	}
	return out
}

func toReadingResponse(r domain.Reading, lang string) ReadingResponse {
	out := ReadingResponse{
		ID:       r.ID,
		Kind:     string(r.Kind),
		Date:     domain.DateKey(r.Date),
		SpreadID: r.SpreadID,
		Title:    r.Title,
		Complete: r.IsComplete(),
		SavedAt:  r.SavedAt,
		Slots:    make([]SlotResponse, len(r.Slots)),
	}
	for i, slot := range r.Slots {
		resp := SlotResponse{
			Index:    slot.Index,
			Drawn:    slot.Card != nil,
			Revealed: slot.Revealed,
			Note:     slot.Note,
		}
		if slot.Card != nil && slot.Revealed {
			card := toCardResponse(slot.Card.Card, slot.Card.Orientation, lang)
			resp.Card = &card
		}
		out.Slots[i] = resp
	}
	return out
}

func toEntryResponse(entry domain.JournalEntry) JournalEntryResponse {
	out := JournalEntryResponse{
		ID:       entry.ID,
		Kind:     string(entry.Kind),
		Date:     domain.DateKey(entry.Date),
		SpreadID: entry.SpreadID,
		Title:    entry.Title,
		SavedAt:  entry.SavedAt,
		Slots:    make([]EntrySlotResponse, len(entry.Slots)),
	}
	for i, slot := range entry.Slots {
		out.Slots[i] = EntrySlotResponse{
			Index:       slot.Index,
			CardID:      slot.CardID,
			Orientation: slot.Orientation,
			Revealed:    slot.Revealed,
			Note:        slot.Note,
		}
	}
	return out
}

func mapError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	switch {
	case errors.Is(err, domain.ErrReadingNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrSpreadNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidCount),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrSlotEmpty),
		errors.Is(err, domain.ErrInvalidNote),
		errors.Is(err, domain.ErrInvalidTitle):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSlotOccupied),
		errors.Is(err, domain.ErrIncompleteReading):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNoInterpreter):
		return c.JSON(http.StatusNotImplemented, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUpstreamLLM), errors.Is(err, domain.ErrInvalidLLMJSON):
		slog.Error("upstream LLM failure", "request_id", requestID, "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream LLM failure"})
	default:
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
