package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/tasktracker-server/internal/model"
)

var _ model.ProjectStore = (*ProjectRepository)(nil)

// ProjectRepository stores projects, their tasks and collaborators.
type ProjectRepository struct {
	db DB
}

func NewProjectRepository(db DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) CreateProject(ctx context.Context, p model.Project) (model.Project, error) {
	const query = `
        INSERT INTO projects (title, description, owner_id, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, title, description, owner_id, created_at
    `

	var saved model.Project
	err := r.db.QueryRow(ctx, query, p.Title, p.Description, p.OwnerID, p.CreatedAt).Scan(
		&saved.ID, &saved.Title, &saved.Description, &saved.OwnerID, &saved.CreatedAt,
	)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	return saved, nil
}

func (r *ProjectRepository) GetProject(ctx context.Context, id int64) (model.Project, error) {
	const query = `SELECT id, title, description, owner_id, created_at FROM projects WHERE id = $1`

	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Title, &p.Description, &p.OwnerID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Project{}, model.ErrNotFound
		}
		return model.Project{}, fmt.Errorf("failed to get project: %w", err)
	}
	return p, nil
}

// ListProjectsByOwner returns the owner's projects, newest first, each with
// its tasks in creation order.
func (r *ProjectRepository) ListProjectsByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Project, error) {
	const projectsQuery = `
        SELECT id, title, description, owner_id, created_at
        FROM projects WHERE owner_id = $1
        ORDER BY created_at DESC, id DESC
    `

	rows, err := r.db.Query(ctx, projectsQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []model.Project
	index := make(map[int64]int)
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}
	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}

	const tasksQuery = `
        SELECT id, title, description, completed, project_id, user_id, created_at
        FROM tasks WHERE project_id = ANY($1)
        ORDER BY id
    `

	taskRows, err := r.db.Query(ctx, tasksQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		t, err := scanTask(taskRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[t.ProjectID]; ok {
			projects[i].Tasks = append(projects[i].Tasks, t)
		}
	}
	if err := taskRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return projects, nil
}

func (r *ProjectRepository) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	const query = `
        INSERT INTO tasks (title, description, project_id, user_id, created_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, title, description, completed, project_id, user_id, created_at
    `

	saved, err := scanTask(r.db.QueryRow(ctx, query, t.Title, t.Description, t.ProjectID, t.UserID, t.CreatedAt))
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, err
	}
	return saved, nil
}

func (r *ProjectRepository) GetTask(ctx context.Context, id int64) (model.Task, error) {
	const query = `
        SELECT id, title, description, completed, project_id, user_id, created_at
        FROM tasks WHERE id = $1
    `

	t, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, err
	}
	return t, nil
}

func (r *ProjectRepository) SetTaskCompleted(ctx context.Context, id int64, completed bool) (model.Task, error) {
	const query = `
        UPDATE tasks SET completed = $2 WHERE id = $1
        RETURNING id, title, description, completed, project_id, user_id, created_at
    `

	t, err := scanTask(r.db.QueryRow(ctx, query, id, completed))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, model.ErrNotFound
		}
		return model.Task{}, err
	}
	return t, nil
}

// AddCollaborator grants access. An existing grant yields model.ErrConflict,
// a missing project or user model.ErrNotFound.
func (r *ProjectRepository) AddCollaborator(ctx context.Context, c model.Collaborator) (model.Collaborator, error) {
	const query = `
        INSERT INTO project_collaborators (project_id, user_id, added_at)
        VALUES ($1, $2, $3)
        RETURNING project_id, user_id, added_at
    `

	saved := model.Collaborator{Username: c.Username}
	err := r.db.QueryRow(ctx, query, c.ProjectID, c.UserID, c.AddedAt).Scan(&saved.ProjectID, &saved.UserID, &saved.AddedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return model.Collaborator{}, model.ErrConflict
		case isForeignKeyViolation(err):
			return model.Collaborator{}, model.ErrNotFound
		}
		return model.Collaborator{}, fmt.Errorf("failed to add collaborator: %w", err)
	}
	return saved, nil
}

func (r *ProjectRepository) RemoveCollaborator(ctx context.Context, projectID int64, userID uuid.UUID) error {
	const query = `DELETE FROM project_collaborators WHERE project_id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove collaborator: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) ListCollaborators(ctx context.Context, projectID int64) ([]model.Collaborator, error) {
	const query = `
        SELECT pc.project_id, pc.user_id, u.username, pc.added_at
        FROM project_collaborators pc
        JOIN users u ON u.id = pc.user_id
        WHERE pc.project_id = $1
        ORDER BY pc.added_at, u.username
    `

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	defer rows.Close()

	var collaborators []model.Collaborator
	for rows.Next() {
		var c model.Collaborator
		if err := rows.Scan(&c.ProjectID, &c.UserID, &c.Username, &c.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		collaborators = append(collaborators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collaborators: %w", err)
	}
	return collaborators, nil
}

func (r *ProjectRepository) IsCollaborator(ctx context.Context, projectID int64, userID uuid.UUID) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM project_collaborators WHERE project_id = $1 AND user_id = $2)`

	var ok bool
	if err := r.db.QueryRow(ctx, query, projectID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check collaborator: %w", err)
	}
	return ok, nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.ProjectID, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Task{}, err
		}
		return model.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}
	return t, nil
}
