package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrPermissionDenied ErrCode = "PERMISSION_DENIED"
	ErrDeviceKeyInvalid ErrCode = "DEVICE_KEY_INVALID"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation  ErrCode = "VALIDATION_ERROR"
	ErrInvalidID   ErrCode = "INVALID_ID"
	ErrInvalidDate ErrCode = "INVALID_DATE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Backup ────────────────────────────────────────────────────────
	ErrFileRequired ErrCode = "FILE_REQUIRED"
	ErrInvalidFile  ErrCode = "INVALID_FILE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrStoreUnavailable ErrCode = "STORE_UNAVAILABLE"
	ErrInternal         ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "ユーザー名またはパスワードが正しくありません。"
	case ErrTokenRequired:
		return "認証トークンが必要です。"
	case ErrTokenInvalid:
		return "認証トークンが無効です。"
	case ErrSessionInvalidated:
		return "セッションが無効になりました。再度ログインしてください。"

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrPermissionDenied:
		return "この操作を行う権限がありません。"
	case ErrDeviceKeyInvalid:
		return "端末認証キーが無効です。"

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "入力内容に誤りがあります。確認してください。"
	case ErrInvalidID:
		return "IDの形式が正しくありません。"
	case ErrInvalidDate:
		return "日付は YYYY-MM-DD 形式で指定してください。"

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "指定されたデータが見つかりません。"
	case ErrConflict:
		return "そのIDは既に使用されています。"

	// ─── Backup ────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "ファイルを指定してください。"
	case ErrInvalidFile:
		return "ファイルの形式が正しくありません。"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "リクエストが多すぎます。しばらくしてから再試行してください。"

	// ─── Server ────────────────────────────────────────────────────────
	case ErrStoreUnavailable:
		return "データベースに接続できません。時間をおいて再試行してください。"
	case ErrInternal:
		return "サーバー内部でエラーが発生しました。"
	default:
		return "予期しないエラーが発生しました。"
	}
}
