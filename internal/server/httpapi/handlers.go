package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sahilchauhan0603/K-N-TaxMarks-Advisors-sub001/internal/common"
)

// response is the uniform JSON envelope for every endpoint.
type response struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: "unauthorized"})
}

func writeInternal(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, response{Success: false, Message: "internal error"})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "invalid request body"})
		return false
	}
	return true
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "email and password are required"})
		return
	}

	tok, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			writeJSON(w, http.StatusConflict, response{Success: false, Message: "an account with this email already exists"})
			return
		}
		s.logger.Error(r.Context(), "registration failed", "error", err.Error())
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Token: tok, Message: "registered"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	tok, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: common.ErrInvalidCredentials.Error()})
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err.Error())
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Token: tok, Message: "logged in"})
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	tok, err := s.auth.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: common.ErrInvalidCredentials.Error()})
			return
		}
		s.logger.Error(r.Context(), "admin login failed", "error", err.Error())
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Token: tok, Message: "logged in"})
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "missing code"})
		return
	}

	tok, err := s.federated.CompleteFederatedLogin(r.Context(), code)
	if err != nil {
		s.logger.Error(r.Context(), "federated login failed", "error", err.Error())
		writeJSON(w, http.StatusUnauthorized, response{Success: false, Message: "federated login failed"})
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Token: tok, Message: "logged in"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// handleForgotPassword always answers success-shaped, whatever the email,
// so the endpoint cannot be used to probe registered addresses.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := s.recovery.RequestOTP(r.Context(), req.Email); err != nil {
		s.logger.Error(r.Context(), "otp request failed", "error", err.Error())
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Message: "if the email is registered, a code has been sent"})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	err := s.recovery.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, response{Success: true, Message: "password updated"})
	case errors.Is(err, common.ErrNoActiveRequest):
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "no active recovery request, please request a new code"})
	case errors.Is(err, common.ErrOTPExpired):
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "the code has expired, please request a new one"})
	case errors.Is(err, common.ErrOTPMismatch):
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "incorrect code"})
	default:
		s.logger.Error(r.Context(), "password reset failed", "error", err.Error())
		writeInternal(w)
	}
}

type principalSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Me(r.Context(), PrincipalID(r.Context()))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeUnauthorized(w)
			return
		}
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: principalSummary{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL.String,
	}})
}

type changePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "new password is required"})
		return
	}

	if err := s.auth.SetPassword(r.Context(), PrincipalID(r.Context()), req.NewPassword); err != nil {
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Message: "password updated"})
}

type createSubmissionRequest struct {
	Service string          `json:"service"`
	Payload json.RawMessage `json:"payload"`
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Service == "" {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "service is required"})
		return
	}

	sub, err := s.submissions.Create(r.Context(), PrincipalID(r.Context()), req.Service, req.Payload)
	if err != nil {
		s.logger.Error(r.Context(), "submission create failed", "error", err.Error())
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: map[string]any{"id": sub.ID}})
}

type submissionSummary struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Service   string          `json:"service"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := s.submissions.List(r.Context(), r.URL.Query().Get("service"))
	if err != nil {
		s.logger.Error(r.Context(), "submission list failed", "error", err.Error())
		writeInternal(w)
		return
	}

	out := make([]submissionSummary, 0, len(subs))
	for _, sub := range subs {
		out = append(out, submissionSummary{
			ID:        sub.ID,
			UserID:    sub.UserID,
			Service:   sub.Service,
			Payload:   sub.Payload,
			CreatedAt: sub.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: out})
}

type presignUploadRequest struct {
	FileName string `json:"fileName"`
}

func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	var req presignUploadRequest
	if !decode(w, r, &req) {
		return
	}

	key, url, err := s.documents.PresignUpload(r.Context(), PrincipalID(r.Context()), req.FileName)
	if err != nil {
		s.logger.Error(r.Context(), "presign upload failed", "error", err.Error())
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: map[string]string{"key": key, "url": url}})
}

func (s *Server) handlePresignDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "missing key"})
		return
	}

	url, err := s.documents.PresignDownload(r.Context(), key)
	if err != nil {
		s.logger.Error(r.Context(), "presign download failed", "error", err.Error())
		writeInternal(w)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Data: map[string]string{"url": url}})
}
