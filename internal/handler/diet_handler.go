package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/diety/internal/middleware"
	"github.com/hitoshi/diety/internal/model"
)

// DietServiceInterface は食事記録ハンドラーが必要とするサービスインターフェース。
type DietServiceInterface interface {
	Create(ctx context.Context, sessionID string, input model.DietEntryInput) (*model.DietEntry, error)
	List(ctx context.Context, sessionID string) ([]*model.DietEntry, error)
	// Get は記録を1件返す。存在しない場合は (nil, nil)。
	Get(ctx context.Context, sessionID, id string) (*model.DietEntry, error)
	Update(ctx context.Context, sessionID, id string, input model.DietEntryInput) error
	Delete(ctx context.Context, sessionID, id string) error
	Summary(ctx context.Context, sessionID string) (model.Summary, error)
}

// DietHandler は食事記録のHTTPハンドラー。
// すべてのエンドポイントはセッションミドルウェアの内側に配置する。
type DietHandler struct {
	service DietServiceInterface
}

// NewDietHandler はDietHandlerを生成する。
func NewDietHandler(service DietServiceInterface) *DietHandler {
	return &DietHandler{
		service: service,
	}
}

// dietEntryRequest は食事記録の作成・更新リクエストのボディ。
type dietEntryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DateAndHour *string `json:"dateAndHour"`
	IsDiet      *string `json:"isDiet"`
}

// dietEntryResponse は食事記録のAPIレスポンス。
type dietEntryResponse struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	DateAndHour string    `json:"dateAndHour"`
	IsDiet      string    `json:"isDiet"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type listDietEntriesResponse struct {
	DailyDiets []dietEntryResponse `json:"dailyDiets"`
}

type getDietEntryResponse struct {
	DailyDiety *dietEntryResponse `json:"dailyDiety"`
}

type summaryResponse struct {
	Total        int `json:"total"`
	InDiet       int `json:"inDiet"`
	OffDiet      int `json:"offDiet"`
	BestSequence int `json:"bestSequence"`
}

// Create は食事記録を作成する。
// POST {prefix}/
func (h *DietHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	input, err := decodeDietEntryInput(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if _, err := h.service.Create(r.Context(), sessionID, input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// List はセッションの食事記録一覧を返す。
// GET {prefix}/
func (h *DietHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	entries, err := h.service.List(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := listDietEntriesResponse{DailyDiets: make([]dietEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.DailyDiets = append(resp.DailyDiets, toDietEntryResponse(e))
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// Get は食事記録を1件返す。見つからない場合はdailyDietyをnullにして200を返す。
// GET {prefix}/{id}
func (h *DietHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Get(r.Context(), sessionID, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	var resp getDietEntryResponse
	if entry != nil {
		e := toDietEntryResponse(entry)
		resp.DailyDiety = &e
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// Update は食事記録を更新する。
// PUT {prefix}/{id}
func (h *DietHandler) Update(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	input, err := decodeDietEntryInput(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := h.service.Update(r.Context(), sessionID, chi.URLParam(r, "id"), input); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Delete は食事記録を削除する。
// DELETE {prefix}/{id}
func (h *DietHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), sessionID, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Summary はセッションの食事記録の集計を返す。
// GET {prefix}/summary
func (h *DietHandler) Summary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrUnauthorized(w, r)
	if !ok {
		return
	}

	summary, err := h.service.Summary(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, summaryResponse{
		Total:        summary.Total,
		InDiet:       summary.InDiet,
		OffDiet:      summary.OffDiet,
		BestSequence: summary.BestSequence,
	})
}

// sessionIDOrUnauthorized はコンテキストからセッションIDを取り出す。
// 取り出せない場合は401を書き込みfalseを返す。
func sessionIDOrUnauthorized(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, err := middleware.SessionIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return "", false
	}
	return sessionID, true
}

// decodeDietEntryInput はリクエストボディを検証してDietEntryInputに変換する。
// isDietの値の検証はサービス層で行う。
func decodeDietEntryInput(r *http.Request) (model.DietEntryInput, error) {
	var req dietEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		return model.DietEntryInput{}, err
	}

	if err := validateFields(
		requiredField{"name", req.Name},
		requiredField{"description", req.Description},
		requiredField{"dateAndHour", req.DateAndHour},
		requiredField{"isDiet", req.IsDiet},
	); err != nil {
		return model.DietEntryInput{}, err
	}

	return model.DietEntryInput{
		Name:        *req.Name,
		Description: *req.Description,
		DateAndHour: *req.DateAndHour,
		Status:      model.DietStatus(*req.IsDiet),
	}, nil
}

func toDietEntryResponse(e *model.DietEntry) dietEntryResponse {
	return dietEntryResponse{
		ID:          e.ID,
		SessionID:   e.SessionID,
		Name:        e.Name,
		Description: e.Description,
		DateAndHour: e.DateAndHour,
		IsDiet:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
