package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/internal/repository"
)

// Service manages the department/doctor catalog. The department-to-doctors
// lookup backs a dependent form selector, so it is served through a Redis
// cache-aside layer invalidated on catalog writes.
type Service struct {
	deptRepo   repository.DepartmentRepository
	doctorRepo repository.DoctorRepository
	cache      *redis.Client
	cacheTTL   time.Duration
}

func NewService(deptRepo repository.DepartmentRepository, doctorRepo repository.DoctorRepository, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{
		deptRepo:   deptRepo,
		doctorRepo: doctorRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func (s *Service) CreateDepartment(ctx context.Context, req *model.CreateDepartmentRequest) (*model.Department, error) {
	dept := &model.Department{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.deptRepo.Create(ctx, dept); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

func (s *Service) ListDepartments(ctx context.Context) ([]*model.Department, error) {
	return s.deptRepo.List(ctx)
}

// DeleteDepartment removes the department and, through the storage cascade,
// all of its doctors.
func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if err := s.deptRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateLookup(ctx, id)
	return nil
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	departmentID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("invalid department ID: %w", err)
	}

	// Doctors must reference an existing department.
	if _, err := s.deptRepo.Get(ctx, departmentID); err != nil {
		return nil, err
	}

	doctor := &model.Doctor{
		ID:               uuid.New(),
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		DepartmentID:     departmentID,
		Specialization:   req.Specialization,
		RegistrationDate: time.Now(),
	}
	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}

	s.invalidateLookup(ctx, departmentID)
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.doctorRepo.Get(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.doctorRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	oldDepartment := doctor.DepartmentID

	if req.FullName != nil {
		doctor.FullName = *req.FullName
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.DepartmentID != nil {
		departmentID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return nil, fmt.Errorf("invalid department ID: %w", err)
		}
		if _, err := s.deptRepo.Get(ctx, departmentID); err != nil {
			return nil, err
		}
		doctor.DepartmentID = departmentID
	}

	if err := s.doctorRepo.Update(ctx, doctor); err != nil {
		return nil, err
	}

	s.invalidateLookup(ctx, oldDepartment)
	if doctor.DepartmentID != oldDepartment {
		s.invalidateLookup(ctx, doctor.DepartmentID)
	}
	return doctor, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	doctor, err := s.doctorRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.doctorRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateLookup(ctx, doctor.DepartmentID)
	return nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	return s.doctorRepo.List(ctx)
}

// DoctorsByDepartment returns the reduced {id, full_name} list for the
// dependent selector, cache-aside over Redis.
func (s *Service) DoctorsByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*model.DoctorRef, error) {
	key := lookupKey(departmentID)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var refs []*model.DoctorRef
			if err := json.Unmarshal(cached, &refs); err == nil {
				return refs, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("doctor lookup cache read failed")
		}
	}

	refs, err := s.doctorRepo.ListRefsByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(refs); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("doctor lookup cache write failed")
			}
		}
	}
	return refs, nil
}

func (s *Service) invalidateLookup(ctx context.Context, departmentID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, lookupKey(departmentID)).Err(); err != nil {
		log.Warn().Err(err).Msg("doctor lookup cache invalidation failed")
	}
}

func lookupKey(departmentID uuid.UUID) string {
	return "doctors:by-department:" + departmentID.String()
}
