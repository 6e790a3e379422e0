package http

import (
	"net/http"
	"strconv"

	"github.com/eduhub/course-hub/internal/application/command"
	"github.com/eduhub/course-hub/internal/application/query"
	"github.com/eduhub/course-hub/internal/domain/course"
	"github.com/eduhub/course-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthCheck != nil {
		if err := s.deps.HealthCheck(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNTS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Password  string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.deps.Accounts.Register(r.Context(), command.RegisterCommand{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Password:  body.Password,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.deps.Accounts.ChangePassword(r.Context(), command.ChangePasswordCommand{
		UserID:      callerID(r),
		OldPassword: body.OldPassword,
		NewPassword: body.NewPassword,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRequestRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.deps.Accounts.RequestRole(r.Context(), callerID(r), user.Role(body.Role)); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResolveRoleRequest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Accepted bool `json:"accepted"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.deps.Accounts.ResolveRoleRequest(r.Context(), r.PathValue("id"), body.Accepted); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Accounts.Delete(r.Context(), callerID(r)); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleWishlist(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Accounts.ToggleWishlist(r.Context(), callerID(r), r.PathValue("courseId")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONTENT AUTHORING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name       string  `json:"name"`
		Type       string  `json:"type"`
		Difficulty string  `json:"difficulty"`
		Price      float64 `json:"price"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.deps.Content.CreateCourse(r.Context(), command.CreateCourseCommand{
		AuthorID:   callerID(r),
		Name:       body.Name,
		Type:       body.Type,
		Difficulty: body.Difficulty,
		Price:      body.Price,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Content.DeleteCourse(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChangeVisibility(w http.ResponseWriter, r *http.Request) {
	var body struct {
		State string `json:"state"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.deps.ChangeVisibility.Handle(r.Context(), command.ChangeVisibilityCommand{
		CourseID: r.PathValue("id"),
		NewState: course.Visibility(body.State),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddArticle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.deps.Content.AddArticle(r.Context(), r.PathValue("id"), callerID(r), body.Name)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.deps.Content.UpdateArticle(r.Context(), command.UpdateArticleCommand{
		CourseID:    r.PathValue("id"),
		ArticleID:   r.PathValue("articleId"),
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveArticle(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Content.RemoveArticle(r.Context(), r.PathValue("id"), r.PathValue("articleId")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddSection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title         string `json:"title"`
		VideoURL      string `json:"videoUrl"`
		VideoDuration int    `json:"videoDuration"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.deps.Content.AddSection(r.Context(), command.AddSectionCommand{
		CourseID:      r.PathValue("id"),
		ArticleID:     r.PathValue("articleId"),
		Title:         body.Title,
		VideoURL:      body.VideoURL,
		VideoDuration: body.VideoDuration,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title         string `json:"title"`
		VideoURL      string `json:"videoUrl"`
		VideoDuration int    `json:"videoDuration"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.deps.Content.UpdateSection(r.Context(), command.UpdateSectionCommand{
		CourseID:      r.PathValue("id"),
		ArticleID:     r.PathValue("articleId"),
		SectionID:     r.PathValue("sectionId"),
		Title:         body.Title,
		VideoURL:      body.VideoURL,
		VideoDuration: body.VideoDuration,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveSection(w http.ResponseWriter, r *http.Request) {
	err := s.deps.Content.RemoveSection(r.Context(),
		r.PathValue("id"), r.PathValue("articleId"), r.PathValue("sectionId"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ══════════════════════════════════════════════════════════════════════════════
// LEARNING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.Enroll.Handle(r.Context(), command.EnrollCommand{
		UserID:   callerID(r),
		CourseID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Enrollment)
}

func (s *Server) handleRegisterView(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.RegisterView.Handle(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CourseID    string `json:"courseId"`
		ArticleID   string `json:"articleId"`
		SectionID   string `json:"sectionId"`
		WatchedSecs int    `json:"watchedSecs"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.deps.RecordProgress.Handle(r.Context(), command.RecordProgressCommand{
		UserID:      callerID(r),
		CourseID:    body.CourseID,
		ArticleID:   body.ArticleID,
		SectionID:   body.SectionID,
		WatchedSecs: body.WatchedSecs,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListEnrolledCourses(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.deps.UserProgress.ListEnrolledCourses(r.Context(), callerID(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetCourseProgress(w http.ResponseWriter, r *http.Request) {
	view, err := s.deps.UserProgress.GetCourseProgress(r.Context(), callerID(r), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// rangeDays parses the optional ?range= query parameter.
func rangeDays(r *http.Request) *int {
	raw := r.URL.Query().Get("range")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}

func (s *Server) handleCourseStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.CourseStatistics.Handle(r.Context(), query.GetCourseStatisticsQuery{
		CourseID:    r.PathValue("id"),
		RequesterID: callerID(r),
		RangeDays:   rangeDays(r),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTeacherStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.TeacherStatistics.Handle(r.Context(), query.GetTeacherStatisticsQuery{
		TeacherID: callerID(r),
		RangeDays: rangeDays(r),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdminStatistics(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.AdminStatistics.Handle(r.Context(), query.GetAdminStatisticsQuery{
		RequesterID: callerID(r),
		RangeDays:   rangeDays(r),
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
