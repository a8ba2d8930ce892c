package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL. Las sedes del
// usuario viven en usuario_sedes y se agregan con array_agg.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.email, u.password_hash, u.nombre, u.rol, u.estado,
	       coalesce((SELECT array_agg(us.sede_id::text ORDER BY us.sede_id) FROM usuario_sedes us WHERE us.usuario_id = u.id), '{}'),
	       u.created_at, u.updated_at
	FROM usuarios u`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Status, &u.SedeIDs, &u.CreatedAt, &u.UpdatedAt)
	return &u, err
}

// Create persiste un nuevo usuario con sus sedes. Debe correr en transacción si se
// quiere atomicidad; desde el pool cada sentencia se confirma por separado.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO usuarios (id, email, password_hash, nombre, rol, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return wrap("insert user", err)
	}
	return r.replaceSedes(ctx, user.ID, user.SedeIDs)
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `u.id = $1`, id)
}

// GetByEmail obtiene un usuario por email (sin distinguir mayúsculas).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `lower(u.email) = lower($1)`, email)
}

func (r *UserRepo) findOne(ctx context.Context, cond string, arg any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE `+cond, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update actualiza datos, hash y sedes del usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE usuarios SET email = $2, password_hash = $3, nombre = $4, rol = $5, estado = $6, updated_at = $7
		WHERE id = $1`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Status, user.UpdatedAt,
	)
	if err != nil {
		return wrap("update user", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return r.replaceSedes(ctx, user.ID, user.SedeIDs)
}

func (r *UserRepo) replaceSedes(ctx context.Context, userID string, sedeIDs []string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM usuario_sedes WHERE usuario_id = $1`, userID); err != nil {
		return wrap("delete usuario_sedes", err)
	}
	if len(sedeIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO usuario_sedes (usuario_id, sede_id)
		SELECT $1, unnest($2::uuid[])`, userID, sedeIDs)
	if err != nil {
		return wrap("insert usuario_sedes", err)
	}
	return nil
}

// List lista usuarios por nombre con filtros.
func (r *UserRepo) List(ctx context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	var w where
	if f.Role != "" {
		w.add("u.rol = ?", f.Role)
	}
	if f.Status != "" {
		w.add("u.estado = ?", f.Status)
	}
	if f.SedeID != "" {
		w.add("EXISTS (SELECT 1 FROM usuario_sedes us WHERE us.usuario_id = u.id AND us.sede_id = ?)", f.SedeID)
	}
	w.search(f.Query, "u.nombre", "u.email")

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM usuarios u`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	rows, err := r.q.Query(ctx, userSelect+w.String()+` ORDER BY u.nombre`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, total, rows.Err()
}
