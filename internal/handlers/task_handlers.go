package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"taskManager/internal/handlers/dto"
	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	TaskService Service
}

func NewTaskHandler(taskService Service) TaskHandler {
	return TaskHandler{
		TaskService: taskService,
	}
}

// GetTasks возвращает задачи по фильтрам из query-параметров.
// Нераспознанные значения фильтров молча игнорируются
func (s *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	query := r.URL.Query()
	filter := task.ListFilter{
		Status:    query.Get("status"),
		Priority:  task.Priority(query.Get("priority")),
		Category:  query.Get("category"),
		Search:    query.Get("search"),
		SortBy:    query.Get("sort_by"),
		SortOrder: task.SortOrder(query.Get("sort_order")),
	}

	tasks, err := s.TaskService.ListTasks(r.Context(), filter)
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "list_tasks"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "не удалось получить задачи")
		return
	}

	logger.Info("HTTP_OUT: Задачи получены",
		zap.Int("count", len(tasks)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTaskList(tasks))
}

func (s *TaskHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверное тело запроса: "+err.Error())
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), service.CreateParams{
		Title:    request.Title,
		Note:     request.Note,
		Priority: request.Priority,
		Category: request.Category,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "create_task"),
			zap.String("client_ip", r.RemoteAddr),
			zap.Duration("ms", time.Since(start)))
		responseWithError(w, http.StatusInternalServerError, "не удалось создать задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithJSON(w, http.StatusCreated, dto.FromTask(created))
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	t, err := s.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_task"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "не удалось получить задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача получена",
		zap.Int64("task_id", t.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(t))
}

// PatchTask обновляет только переданные поля. Сырое тело запроса
// никогда не мержится в задачу - только провалидированные поля
func (s *TaskHandler) PatchTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusUnsupportedMediaType, "Content-Type должен быть application/json")
		return
	}

	var request dto.UpdateTaskRequest

	decoder := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := decoder.Decode(&request); err != nil {
		logger.Warn("HTTP: ошибка чтения JSON",
			zap.Error(err),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "неверно переданы параметры обновления: "+err.Error())
		return
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), id, service.UpdateParams{
		Title:     request.Title,
		Note:      request.Note,
		Priority:  request.Priority,
		Category:  request.Category,
		Completed: request.Completed,
	})
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "update_task"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "не удалось обновить задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", updated.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(updated))
}

// ToggleTask переключает completed одним запросом
func (s *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	toggled, err := s.TaskService.ToggleTask(r.Context(), id)
	if err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "toggle_task"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "не удалось обновить задачу")
		return
	}

	logger.Info("HTTP_OUT: Статус задачи переключён",
		zap.Int64("task_id", toggled.ID),
		zap.Bool("completed", toggled.Completed),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, dto.FromTask(toggled))
}

func (s *TaskHandler) DeleteTaskByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		if handleBusinessError(w, err) {
			return
		}
		logger.Error("HTTP: ошибка в Service", err,
			zap.String("operation", "delete_task"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "не удалось удалить задачу")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusNoContent))

	responseWithJSON(w, http.StatusNoContent, nil)
}

// GetCategories - отдельной таблицы категорий нет, это проекция
// различных значений category по всем задачам
func (s *TaskHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	categories, err := s.TaskService.Categories(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_categories"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "не удалось получить категории")
		return
	}

	logger.Info("HTTP_OUT: Категории получены",
		zap.Int("count", len(categories)),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, categories)
}

func (s *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger.HttpRequestInfo(r, "HTTP_IN:")

	stats, err := s.TaskService.Stats(r.Context())
	if err != nil {
		logger.Error("HTTP: Ошибка Service", err,
			zap.String("operation", "get_stats"),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusInternalServerError, "не удалось получить статистику")
		return
	}

	logger.Info("HTTP_OUT: Статистика получена",
		zap.Int("total", stats.Total),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithJSON(w, http.StatusOK, stats)
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		responseWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"service": "task-manager",
			"status":  "unavailable",
		})
		return
	}

	responseWithJSON(w, http.StatusOK, map[string]string{
		"service": "task-manager",
		"status":  "ok",
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id <= 0 {
		logger.Warn("HTTP: Неверное значение id",
			zap.String("id", idParam),
			zap.String("client_ip", r.RemoteAddr))
		responseWithError(w, http.StatusBadRequest, "не удалось получить id")
		return 0, false
	}
	return id, true
}
