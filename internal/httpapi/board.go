package httpapi

import (
	"net/http"

	"github.com/mmynk/shopboard/internal/httputil"
	"github.com/mmynk/shopboard/internal/service"
)

func (a *API) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in service.ProjectInput
	if err := decodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	project, err := a.projects.CreateProject(r.Context(), in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusCreated, project)
}

func (a *API) handleListProjects(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	projects, err := a.projects.ListProjects(r.Context(), page)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, projects)
}

func (a *API) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := a.projects.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, project)
}

func (a *API) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := a.projects.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var in service.TaskInput
	if err := decodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	project, err := a.projects.AddTask(r.Context(), r.PathValue("id"), in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, project)
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var in service.TaskUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	project, err := a.projects.UpdateTask(r.Context(), r.PathValue("id"), r.PathValue("taskId"), in)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, project)
}

func (a *API) handleRemoveTask(w http.ResponseWriter, r *http.Request) {
	project, err := a.projects.RemoveTask(r.Context(), r.PathValue("id"), r.PathValue("taskId"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, project)
}
