package handlers

import (
	"time"

	"github.com/oktavandi/tasknest/internal/domain/entity"
)

type userView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type subtaskView struct {
	ID        string    `json:"id"`
	Subject   string    `json:"subject"`
	Deadline  time.Time `json:"deadline"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type taskView struct {
	ID        string        `json:"id"`
	Subject   string        `json:"subject"`
	Deadline  time.Time     `json:"deadline"`
	Status    string        `json:"status"`
	Subtasks  []subtaskView `json:"subtasks"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func toUserView(u *entity.User) userView {
	return userView{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toSubtaskView(st entity.Subtask) subtaskView {
	return subtaskView{
		ID:        st.ID,
		Subject:   st.Subject,
		Deadline:  st.Deadline,
		Status:    string(st.Status),
		CreatedAt: st.CreatedAt,
		UpdatedAt: st.UpdatedAt,
	}
}

func toSubtaskViews(subtasks []entity.Subtask) []subtaskView {
	out := make([]subtaskView, 0, len(subtasks))
	for _, st := range subtasks {
		out = append(out, toSubtaskView(st))
	}
	return out
}

func toTaskView(t entity.Task) taskView {
	return taskView{
		ID:        t.ID,
		Subject:   t.Subject,
		Deadline:  t.Deadline,
		Status:    string(t.Status),
		Subtasks:  toSubtaskViews(t.Subtasks),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTaskViews(tasks []entity.Task) []taskView {
	out := make([]taskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskView(t))
	}
	return out
}
