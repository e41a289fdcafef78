package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/mohammadpnp/employee-registry/internal/domain/employee"
	"github.com/mohammadpnp/employee-registry/internal/infrastructure/db/models"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var row models.Employee
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("find employee by id: %w", err)
	}
	return toDomain(row), nil
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, userID uuid.UUID, email string) (*domain.Employee, error) {
	return r.findOne(ctx, "user_id = ? AND email = ?", userID, email)
}

func (r *EmployeeRepository) FindByCPF(ctx context.Context, userID uuid.UUID, cpfDigits string) (*domain.Employee, error) {
	return r.findOne(ctx, "user_id = ? AND cpf = ?", userID, cpfDigits)
}

// findOne returns nil (no error) when nothing matches: the import job
// treats an absent record as "new entity", not as a failure.
func (r *EmployeeRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Employee, error) {
	var row models.Employee
	err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return toDomain(row), nil
}

func (r *EmployeeRepository) ExistsByEmail(ctx context.Context, userID uuid.UUID, email string, ignoreID int64) (bool, error) {
	return r.exists(ctx, "email = ?", email, userID, ignoreID)
}

func (r *EmployeeRepository) ExistsByCPF(ctx context.Context, userID uuid.UUID, cpfDigits string, ignoreID int64) (bool, error) {
	return r.exists(ctx, "cpf = ?", cpfDigits, userID, ignoreID)
}

func (r *EmployeeRepository) exists(ctx context.Context, cond string, value any, userID uuid.UUID, ignoreID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("user_id = ?", userID).
		Where(cond, value)
	if ignoreID != 0 {
		q = q.Where("id <> ?", ignoreID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("count employees: %w", err)
	}
	return count > 0, nil
}

func (r *EmployeeRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Employee, error) {
	var rows []models.Employee
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}

	out := make([]domain.Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, *toDomain(row))
	}
	return out, nil
}

func (r *EmployeeRepository) Create(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	row := fromDomain(e)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Employee{}, fmt.Errorf("create employee: %w", err)
	}
	return *toDomain(row), nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e domain.Employee) error {
	err := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"name":  e.Name,
			"email": e.Email,
			"cpf":   e.CPF,
			"city":  e.City,
			"state": e.State,
		}).Error
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) SoftDelete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Employee{}, id).Error; err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return nil
}

// Upsert creates or updates keyed on the content pair (cpf digits,
// e-mail) within the owning user, which is what makes re-running the
// same import row idempotent.
func (r *EmployeeRepository) Upsert(ctx context.Context, e domain.Employee) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row models.Employee
		err := tx.Where("user_id = ? AND cpf = ? AND email = ?", e.UserID, e.CPF, e.Email).
			First(&row).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if e.ID != 0 {
				// The row matched an existing record by one of its
				// identities; rewrite that record in place.
				return tx.Model(&models.Employee{}).
					Where("id = ?", e.ID).
					Updates(map[string]any{
						"name":  e.Name,
						"email": e.Email,
						"cpf":   e.CPF,
						"city":  e.City,
						"state": e.State,
					}).Error
			}
			created := fromDomain(e)
			return tx.Create(&created).Error
		case err != nil:
			return fmt.Errorf("find employee for upsert: %w", err)
		default:
			return tx.Model(&models.Employee{}).
				Where("id = ?", row.ID).
				Updates(map[string]any{
					"name":  e.Name,
					"city":  e.City,
					"state": e.State,
				}).Error
		}
	})
}

func toDomain(row models.Employee) *domain.Employee {
	return &domain.Employee{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		Email:     row.Email,
		CPF:       row.CPF,
		City:      row.City,
		State:     row.State,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func fromDomain(e domain.Employee) models.Employee {
	return models.Employee{
		ID:     e.ID,
		UserID: e.UserID,
		Name:   e.Name,
		Email:  e.Email,
		CPF:    e.CPF,
		City:   e.City,
		State:  e.State,
	}
}
