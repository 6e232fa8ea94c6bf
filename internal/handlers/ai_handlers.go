package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"taskPlanner/internal/handlers/dto"
	"taskPlanner/internal/logger"

	"go.uber.org/zap"
)

type AIHandler struct {
	AIService AIService
}

func NewAIHandler(aiService AIService) AIHandler {
	return AIHandler{
		AIService: aiService,
	}
}

// ParseTask разбирает свободный текст в черновик задачи, не сохраняя её
func (h *AIHandler) ParseTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	request, ok := decodeParseRequest(w, r)
	if !ok {
		return
	}

	draft, err := h.AIService.ParseTask(r.Context(), request.Input)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err, zap.String("operation", "parse_task"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Текст разобран",
		zap.String("title", draft.Title),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, toPayload("draft", draft))
}

// CreateTaskFromText разбирает текст и сразу создаёт задачу.
// При недоступном провайдере черновик строится эвристикой.
func (h *AIHandler) CreateTaskFromText(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	request, ok := decodeParseRequest(w, r)
	if !ok {
		return
	}

	created, err := h.AIService.CreateTaskFromText(r.Context(), request.Input)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task_from_text"),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Задача создана из текста",
		zap.String("task_id", created.UUID.String()),
		zap.Bool("ai_generated", created.AIGenerated),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusCreated,
		toPayload("message", "задача создана"),
		toPayload("task", dto.FromTask(created)),
	)
}

// SuggestSubtasks дополняет черновик подсказками провайдера
func (h *AIHandler) SuggestSubtasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if !checkContentType(r, "application/json") {
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.SuggestSubtasksRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}
	defer r.Body.Close()

	draft, err := h.AIService.SuggestSubtasks(r.Context(), request.ToRawDraft())
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err, zap.String("operation", "suggest_subtasks"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("HTTP_OUT: Подсказки получены",
		zap.Int("subtasks", len(draft.Subtasks)),
		zap.Duration("ms", time.Since(start)))

	responseWithJSON(w, http.StatusOK, toPayload("suggestions", dto.SuggestionsResponse{
		SuggestedSubtasks: draft.Subtasks,
		SuggestedCategory: draft.Category,
		SuggestedPriority: string(draft.Priority),
	}))
}

// PrioritizeTasks возвращает незавершённые задачи в порядке срочности
func (h *AIHandler) PrioritizeTasks(w http.ResponseWriter, r *http.Request) {
	var request dto.PrioritizeRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			logger.Warn("HTTP: ошибка чтения JSON",
				zap.Error(err),
				zap.String("client_ip", r.RemoteAddr))
			responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
			return
		}
		defer r.Body.Close()
	}

	tasks, err := h.AIService.PrioritizeTasks(r.Context(), request.TaskIDs)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err, zap.String("operation", "prioritize_tasks"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("prioritized_tasks", dto.FromTaskList(tasks)),
		toPayload("count", len(tasks)),
	)
}

// GenerateSummary собирает сводку по задачам за период из query-параметра
func (h *AIHandler) GenerateSummary(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")

	summary, err := h.AIService.GenerateSummary(r.Context(), period)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err, zap.String("operation", "generate_summary"))
		responseWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	responseWithJSON(w, http.StatusOK, toPayload("summary", summary))
}

// AIHealth сообщает, настроен ли провайдер подсказок
func (h *AIHandler) AIHealth(w http.ResponseWriter, r *http.Request) {
	status := "available"
	if !h.AIService.Configured() {
		status = "not_configured"
	}

	responseWithJSON(w, http.StatusOK,
		toPayload("status", status),
		toPayload("configured", h.AIService.Configured()),
	)
}

func decodeParseRequest(w http.ResponseWriter, r *http.Request) (dto.ParseTaskRequest, bool) {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return dto.ParseTaskRequest{}, false
	}

	var request dto.ParseTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return dto.ParseTaskRequest{}, false
	}
	r.Body.Close()
	return request, true
}
