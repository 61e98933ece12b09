package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hitoshi/diety/internal/middleware"
	"github.com/hitoshi/diety/internal/model"
)

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		statusCode := mapAPIErrorToHTTPStatus(apiErr)
		writeAPIErrorResponse(w, statusCode, apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.ErrorContext(r.Context(), "internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON はリクエストボディをdstにデコードする。
// 解析できない場合はバリデーションエラーを返す。
func decodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return model.NewValidationError("リクエストボディが空です")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return model.NewValidationError("リクエストボディの解析に失敗しました")
	}
	return nil
}

// writeJSON はステータスコードとJSONボディを書き込む。
func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.WarnContext(r.Context(), "failed to write response", slog.String("error", err.Error()))
	}
}

// requiredField はリクエストボディの必須フィールド。
type requiredField struct {
	name  string
	value *string
}

// validateFields は必須フィールドを先頭から検証し、最初の違反をValidationErrorとして返す。
// 空文字列は許可する。NUL文字はPostgreSQLのtext型に保存できないため拒否する。
func validateFields(fields ...requiredField) error {
	for _, f := range fields {
		if f.value == nil {
			return model.NewValidationError(fmt.Sprintf("%sは必須です", f.name))
		}
		if strings.ContainsRune(*f.value, 0) {
			return model.NewValidationError(fmt.Sprintf("%sにNUL文字は使用できません", f.name))
		}
	}
	return nil
}
