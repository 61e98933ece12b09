package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/diety/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// Register はユーザーを登録する。
	Register(ctx context.Context, name, email, password string) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// registerUserRequest はユーザー登録リクエストのボディ。
// 未指定と空文字列を区別するためポインタで受け取る。
type registerUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Register はユーザー登録を処理する。
// POST {prefix}/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := decodeJSON(r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if err := validateFields(
		requiredField{"name", req.Name},
		requiredField{"email", req.Email},
		requiredField{"password", req.Password},
	); err != nil {
		handleServiceError(w, r, err)
		return
	}

	if _, err := h.service.Register(r.Context(), *req.Name, *req.Email, *req.Password); err != nil {
		handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
