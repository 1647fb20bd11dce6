package request

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
)

// fakeRequestRepo mirrors the storage-layer guarantees: the partial unique
// index over non-rejected requests and the absolute unique slot constraint
// on appointments, with Approve running as an all-or-nothing unit.
type fakeRequestRepo struct {
	mu           sync.Mutex
	requests     map[uuid.UUID]*model.AppointmentRequest
	appointments []*model.Appointment
	// advisoryBlind makes the pre-check always pass, simulating the race
	// window between check and insert.
	advisoryBlind bool
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uuid.UUID]*model.AppointmentRequest)}
}

func (f *fakeRequestRepo) slotHeld(doctorID uuid.UUID, date, timeOfDay string, exclude uuid.UUID) bool {
	for _, r := range f.requests {
		if r.ID != exclude && r.DoctorID == doctorID && r.Date == date && r.Time == timeOfDay && r.Status.Blocking() {
			return true
		}
	}
	return false
}

func (f *fakeRequestRepo) appointmentSlotHeld(appt *model.Appointment) bool {
	for _, a := range f.appointments {
		if a.DoctorID != nil && appt.DoctorID != nil && *a.DoctorID == *appt.DoctorID &&
			a.AppointmentDate == appt.AppointmentDate && a.AppointmentTime == appt.AppointmentTime {
			return true
		}
	}
	return false
}

func (f *fakeRequestRepo) Create(_ context.Context, req *model.AppointmentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.slotHeld(req.DoctorID, req.Date, req.Time, req.ID) {
		return apperrors.Conflict("this time slot is already booked for the selected doctor", nil)
	}
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) Get(_ context.Context, id uuid.UUID) (*model.AppointmentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.NotFound("appointment request", nil)
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRequestRepo) Update(_ context.Context, req *model.AppointmentRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[req.ID]; !ok {
		return apperrors.NotFound("appointment request", nil)
	}
	if f.slotHeld(req.DoctorID, req.Date, req.Time, req.ID) {
		return apperrors.Conflict("this time slot is already booked for the selected doctor", nil)
	}
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[id]; !ok {
		return apperrors.NotFound("appointment request", nil)
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) ListByPatient(_ context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AppointmentRequest
	for _, r := range f.requests {
		if r.PatientID == patientID {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeRequestRepo) ListAll(_ context.Context) ([]*model.AppointmentRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.AppointmentRequest
	for _, r := range f.requests {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

func (f *fakeRequestRepo) ExistsBlockingForSlot(_ context.Context, doctorID uuid.UUID, date, timeOfDay string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.advisoryBlind {
		return false, nil
	}
	return f.slotHeld(doctorID, date, timeOfDay, uuid.Nil), nil
}

func (f *fakeRequestRepo) SetStatus(_ context.Context, id uuid.UUID, from, to model.RequestStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok || r.Status != from {
		return false, nil
	}
	r.Status = to
	return true, nil
}

func (f *fakeRequestRepo) Approve(_ context.Context, requestID uuid.UUID, appt *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[requestID]
	if !ok {
		return apperrors.NotFound("appointment request", nil)
	}
	if r.Status != model.RequestStatusPending {
		return apperrors.Denied()
	}
	if f.appointmentSlotHeld(appt) {
		// Insert fails, the whole unit rolls back: status stays pending.
		return apperrors.Conflict("that time is already booked for this doctor", nil)
	}
	r.Status = model.RequestStatusAccepted
	cp := *appt
	f.appointments = append(f.appointments, &cp)
	return nil
}

func submitReq(doctorID uuid.UUID, date, timeOfDay string) *model.SubmitRequestRequest {
	return &model.SubmitRequestRequest{
		FullName: "Amina Yusuf",
		Email:    "amina@example.com",
		Phone:    "0700000001",
		DoctorID: doctorID.String(),
		Date:     date,
		Time:     timeOfDay,
	}
}

func TestSubmitAndApproveFlow(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	patient := uuid.New()
	doctor := uuid.New()

	r, err := svc.Submit(ctx, patient, submitReq(doctor, "2024-06-01", "10:00"))
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, r.Status)
	assert.Equal(t, patient, r.PatientID)

	require.NoError(t, svc.Approve(ctx, r.ID))

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, got.Status)

	require.Len(t, repo.appointments, 1)
	appt := repo.appointments[0]
	assert.Equal(t, doctor, *appt.DoctorID)
	assert.Equal(t, "2024-06-01", appt.AppointmentDate)
	assert.Equal(t, "10:00", appt.AppointmentTime)
	assert.Equal(t, r.FullName, appt.FullName)
	assert.Equal(t, model.AppointmentStatusActive, appt.Status)

	// Same slot again: the accepted request still blocks it.
	_, err = svc.Submit(ctx, patient, submitReq(doctor, "2024-06-01", "10:00"))
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrValidation))
}

func TestApproveIsIdempotent(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r, err := svc.Submit(ctx, uuid.New(), submitReq(uuid.New(), "2024-06-01", "10:00"))
	require.NoError(t, err)

	require.NoError(t, svc.Approve(ctx, r.ID))
	require.NoError(t, svc.Approve(ctx, r.ID))

	assert.Len(t, repo.appointments, 1)
}

func TestApproveConflictLeavesRequestPending(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doctor := uuid.New()
	r, err := svc.Submit(ctx, uuid.New(), submitReq(doctor, "2024-07-01", "09:00"))
	require.NoError(t, err)

	// A direct booking took the slot between submission and approval.
	repo.appointments = append(repo.appointments, &model.Appointment{
		ID:              uuid.New(),
		DoctorID:        &doctor,
		AppointmentDate: "2024-07-01",
		AppointmentTime: "09:00",
		Status:          model.AppointmentStatusActive,
	})

	err = svc.Approve(ctx, r.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, got.Status, "a failed approval must not mark the request accepted")
	assert.Len(t, repo.appointments, 1, "a failed approval must not add an appointment")
}

func TestRejectFreesSlotForResubmission(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	doctor := uuid.New()
	patientA := uuid.New()
	patientB := uuid.New()

	r, err := svc.Submit(ctx, patientA, submitReq(doctor, "2024-06-01", "11:00"))
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, r.ID))

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, got.Status)
	assert.Empty(t, repo.appointments, "rejection creates no appointment")

	// Another patient can now take the slot.
	r2, err := svc.Submit(ctx, patientB, submitReq(doctor, "2024-06-01", "11:00"))
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusPending, r2.Status)
}

func TestRejectNonPendingIsNoop(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r, err := svc.Submit(ctx, uuid.New(), submitReq(uuid.New(), "2024-06-01", "10:00"))
	require.NoError(t, err)
	require.NoError(t, svc.Approve(ctx, r.ID))

	require.NoError(t, svc.Reject(ctx, r.ID))

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RequestStatusAccepted, got.Status)
}

func TestUpdateDeniedForNonOwner(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := uuid.New()
	stranger := uuid.New()
	r, err := svc.Submit(ctx, owner, submitReq(uuid.New(), "2024-06-01", "10:00"))
	require.NoError(t, err)

	newName := "Someone Else"
	_, err = svc.Update(ctx, r.ID, stranger, &model.UpdateRequestRequest{FullName: &newName})
	require.Error(t, err)
	assert.True(t, apperrors.IsDenied(err))

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Amina Yusuf", got.FullName, "denied update must not mutate")
}

func TestUpdateDeniedWhenNotPending(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := uuid.New()
	r, err := svc.Submit(ctx, owner, submitReq(uuid.New(), "2024-06-01", "10:00"))
	require.NoError(t, err)
	require.NoError(t, svc.Approve(ctx, r.ID))

	newPhone := "0711111111"
	_, err = svc.Update(ctx, r.ID, owner, &model.UpdateRequestRequest{Phone: &newPhone})
	require.Error(t, err)
	assert.True(t, apperrors.IsDenied(err))
}

func TestUpdateByOwnerWhilePending(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := uuid.New()
	r, err := svc.Submit(ctx, owner, submitReq(uuid.New(), "2024-06-01", "10:00"))
	require.NoError(t, err)

	newTime := "10:30"
	updated, err := svc.Update(ctx, r.ID, owner, &model.UpdateRequestRequest{Time: &newTime})
	require.NoError(t, err)
	assert.Equal(t, "10:30", updated.Time)

	got, err := repo.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "10:30", got.Time)
}

func TestDeleteRules(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := uuid.New()
	stranger := uuid.New()

	pending, err := svc.Submit(ctx, owner, submitReq(uuid.New(), "2024-06-01", "10:00"))
	require.NoError(t, err)

	accepted, err := svc.Submit(ctx, owner, submitReq(uuid.New(), "2024-06-02", "10:00"))
	require.NoError(t, err)
	require.NoError(t, svc.Approve(ctx, accepted.ID))

	rejected, err := svc.Submit(ctx, owner, submitReq(uuid.New(), "2024-06-03", "10:00"))
	require.NoError(t, err)
	require.NoError(t, svc.Reject(ctx, rejected.ID))

	// Non-owner delete is silently denied.
	err = svc.Delete(ctx, pending.ID, stranger)
	require.Error(t, err)
	assert.True(t, apperrors.IsDenied(err))
	_, err = repo.Get(ctx, pending.ID)
	assert.NoError(t, err)

	// Accepted requests cannot be deleted: a live appointment backs them.
	err = svc.Delete(ctx, accepted.ID, owner)
	require.Error(t, err)
	assert.True(t, apperrors.IsDenied(err))

	// Pending and rejected can.
	require.NoError(t, svc.Delete(ctx, pending.ID, owner))
	require.NoError(t, svc.Delete(ctx, rejected.ID, owner))
}

func TestRacingSubmissionsResolveAtInsert(t *testing.T) {
	repo := newFakeRequestRepo()
	repo.advisoryBlind = true
	svc := NewService(repo)
	ctx := context.Background()

	doctor := uuid.New()

	// Both submissions pass the advisory check; the constraint decides.
	_, err := svc.Submit(ctx, uuid.New(), submitReq(doctor, "2024-06-01", "10:00"))
	require.NoError(t, err)

	_, err = svc.Submit(ctx, uuid.New(), submitReq(doctor, "2024-06-01", "10:00"))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err), "second committer gets the uniqueness error")
}

func TestListForPatientOnlyOwnRequests(t *testing.T) {
	repo := newFakeRequestRepo()
	svc := NewService(repo)
	ctx := context.Background()

	patientA := uuid.New()
	patientB := uuid.New()

	_, err := svc.Submit(ctx, patientA, submitReq(uuid.New(), "2024-06-01", "10:00"))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, patientB, submitReq(uuid.New(), "2024-06-01", "11:00"))
	require.NoError(t, err)

	mine, err := svc.ListForPatient(ctx, patientA)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, patientA, mine[0].PatientID)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
