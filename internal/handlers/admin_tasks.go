// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"zuva/internal/content"
	"zuva/internal/models"
	"zuva/internal/render"
	"zuva/internal/session"
	"zuva/internal/toggle"
)

const tasksPath = "/admin/tasks"

// taskForm is the task editor's input. Numbers stay strings until they
// validate so a rejected form shows what was typed.
type taskForm struct {
	Title      string `form:"title" validate:"required,max=300"`
	Category   string `form:"category" validate:"required,category"`
	ButtonText string `form:"button_text" validate:"required,max=50"`
	ActionURL  string `form:"action_url" validate:"omitempty,max=2048,url"`
	Reward     string `form:"reward" validate:"required,number,int32"`
	Order      string `form:"order" validate:"omitempty,integer,int32"`
	IsActive   bool   `form:"is_active"`
	IsSpecial  bool   `form:"is_special"`
}

// newTaskForm holds the defaults of the create form.
func newTaskForm() taskForm {
	return taskForm{
		Category:   string(models.TaskCategoryOneTime),
		ButtonText: "Claim",
		Order:      "0",
		IsActive:   true,
	}
}

func taskFormFrom(r *http.Request) taskForm {
	return taskForm{
		Title:      strings.TrimSpace(r.FormValue("title")),
		Category:   strings.TrimSpace(r.FormValue("category")),
		ButtonText: strings.TrimSpace(r.FormValue("button_text")),
		ActionURL:  strings.TrimSpace(r.FormValue("action_url")),
		Reward:     strings.TrimSpace(r.FormValue("reward")),
		Order:      strings.TrimSpace(r.FormValue("order")),
		IsActive:   r.FormValue("is_active") == "true",
		IsSpecial:  r.FormValue("is_special") == "true",
	}
}

func taskFormOf(t *models.Task) taskForm {
	f := taskForm{
		Title:      t.Title,
		Category:   string(t.Category),
		ButtonText: t.ButtonText,
		Reward:     strconv.Itoa(t.Reward),
		Order:      strconv.Itoa(t.Order),
		IsActive:   t.IsActive,
		IsSpecial:  t.IsSpecial,
	}
	if t.ActionURL != nil {
		f.ActionURL = *t.ActionURL
	}
	return f
}

// input converts a validated form. Both numbers are known to fit an int32
// column by now.
func (f taskForm) input() models.TaskInput {
	reward, _ := strconv.Atoi(f.Reward)
	order, _ := strconv.Atoi(f.Order)
	in := models.TaskInput{
		Title:      f.Title,
		Category:   models.TaskCategory(f.Category),
		ButtonText: f.ButtonText,
		Reward:     reward,
		IsActive:   f.IsActive,
		IsSpecial:  f.IsSpecial,
		Order:      order,
	}
	if f.ActionURL != "" {
		url := f.ActionURL
		in.ActionURL = &url
	}
	return in
}

// patch converts a validated form into a full update. An empty action URL
// clears the stored one to NULL.
func (f taskForm) patch() models.TaskPatch {
	in := f.input()
	url := f.ActionURL
	return models.TaskPatch{
		Title:      &in.Title,
		Category:   &in.Category,
		ButtonText: &in.ButtonText,
		Reward:     &in.Reward,
		ActionURL:  &url,
		IsActive:   &in.IsActive,
		IsSpecial:  &in.IsSpecial,
		Order:      &in.Order,
	}
}

// TasksList renders every task in sort order.
func (a *Admin) TasksList(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{}
	tasks, err := a.tasks.ListAll(r.Context())
	if err != nil {
		slog.Error("list tasks failed", "error", err)
		data["Error"] = "Failed to load tasks"
	}
	data["Tasks"] = tasks

	a.renderer.Page(w, r, "tasks_list", &render.PageData{
		Title:   "Tasks",
		Section: "tasks",
		Data:    data,
	})
}

// TaskNew renders an empty task form.
func (a *Admin) TaskNew(w http.ResponseWriter, r *http.Request) {
	a.renderTaskForm(w, r, http.StatusOK, uuid.Nil, newTaskForm(), nil, "")
}

// TaskEdit renders the form for an existing task.
func (a *Admin) TaskEdit(w http.ResponseWriter, r *http.Request) {
	task, ok := a.loadTask(w, r)
	if !ok {
		return
	}
	a.renderTaskForm(w, r, http.StatusOK, task.ID, taskFormOf(task), nil, "")
}

// TaskCreate validates and stores a new task.
func (a *Admin) TaskCreate(w http.ResponseWriter, r *http.Request) {
	form := taskFormFrom(r)
	if errs := validateForm(form); errs != nil {
		a.renderTaskForm(w, r, http.StatusUnprocessableEntity, uuid.Nil, form, errs, "")
		return
	}

	id, err := a.tasks.Create(r.Context(), form.input())
	if err != nil {
		a.taskSaveFailed(w, r, uuid.Nil, form, err)
		return
	}

	slog.Info("task created", "id", id)
	a.sessions.SetFlash(w, session.FlashSuccess, "Task created!")
	http.Redirect(w, r, tasksPath, http.StatusSeeOther)
}

// TaskUpdate validates and saves changes to an existing task.
func (a *Admin) TaskUpdate(w http.ResponseWriter, r *http.Request) {
	task, ok := a.loadTask(w, r)
	if !ok {
		return
	}

	form := taskFormFrom(r)
	if errs := validateForm(form); errs != nil {
		a.renderTaskForm(w, r, http.StatusUnprocessableEntity, task.ID, form, errs, "")
		return
	}

	if err := a.tasks.Update(r.Context(), task.ID, form.patch()); err != nil {
		a.taskSaveFailed(w, r, task.ID, form, err)
		return
	}

	slog.Info("task updated", "id", task.ID)
	a.sessions.SetFlash(w, session.FlashSuccess, "Task updated!")
	http.Redirect(w, r, tasksPath, http.StatusSeeOther)
}

// TaskDelete removes a task. Deleting a missing task succeeds.
func (a *Admin) TaskDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	flash := session.Flash{Kind: session.FlashSuccess, Message: "Task deleted"}
	if err := a.tasks.Delete(r.Context(), id); err != nil {
		slog.Error("delete task failed", "id", id, "error", err)
		flash = session.Flash{Kind: session.FlashError, Message: "Failed to delete task"}
	}
	a.deleted(w, r, "tasks_list", tasksPath, flash)
}

// TaskToggle flips a task's isActive flag in place and answers with the
// re-rendered row. When the update fails the row keeps its previous value
// and an error toast is shown. A second toggle of the same task while the
// first is still running is refused with 409.
func (a *Admin) TaskToggle(w http.ResponseWriter, r *http.Request) {
	task, ok := a.loadTask(w, r)
	if !ok {
		return
	}

	res, err := a.toggles.Run(r.Context(), task.ID.String(), task.IsActive, func(ctx context.Context, active bool) error {
		return a.tasks.SetActive(ctx, task.ID, active)
	})
	if errors.Is(err, toggle.ErrInFlight) {
		w.Header().Set("HX-Reswap", "none")
		http.Error(w, "Update already in progress", http.StatusConflict)
		return
	}

	flash := session.Flash{Kind: session.FlashSuccess, Message: "Task deactivated"}
	switch {
	case res.Reverted:
		slog.Error("toggle task failed", "id", task.ID, "error", res.Err)
		flash = session.Flash{Kind: session.FlashError, Message: "Update failed"}
	case res.Value:
		flash.Message = "Task activated"
	}
	task.IsActive = res.Value

	a.renderer.Partial(w, r, "tasks_list", "task_toggled", &render.PageData{
		Data:    map[string]any{"Task": task},
		Flashes: []session.Flash{flash},
	})
}

// loadTask resolves the {id} parameter, answering 404 itself when the
// task does not exist.
func (a *Admin) loadTask(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	id, ok := parseID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	task, err := a.tasks.Get(r.Context(), id)
	if err != nil {
		slog.Error("load task failed", "id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	if task == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return task, true
}

func (a *Admin) taskSaveFailed(w http.ResponseWriter, r *http.Request, id uuid.UUID, form taskForm, err error) {
	if errors.Is(err, content.ErrInvalid) {
		a.renderTaskForm(w, r, http.StatusUnprocessableEntity, id, form, nil, err.Error())
		return
	}
	slog.Error("save task failed", "id", id, "error", err)
	a.renderTaskForm(w, r, http.StatusInternalServerError, id, form, nil, "Failed to save task")
}

func (a *Admin) renderTaskForm(w http.ResponseWriter, r *http.Request, status int, id uuid.UUID, form taskForm, errs map[string]string, formErr string) {
	if errs == nil {
		errs = map[string]string{}
	}
	title, action := "Create Task", tasksPath
	if id != uuid.Nil {
		title, action = "Edit Task", tasksPath+"/"+id.String()
	}

	a.renderer.PageStatus(w, r, status, "task_form", &render.PageData{
		Title:   title,
		Section: "tasks",
		Data: map[string]any{
			"Form":       form,
			"Errors":     errs,
			"Error":      formErr,
			"Action":     action,
			"Editing":    id != uuid.Nil,
			"Categories": models.TaskCategories,
		},
	})
}
