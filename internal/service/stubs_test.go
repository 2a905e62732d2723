package service_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Alex01Dev/backend-gerencia/internal/config"
	"github.com/Alex01Dev/backend-gerencia/internal/dto"
	"github.com/Alex01Dev/backend-gerencia/internal/model"
	"github.com/Alex01Dev/backend-gerencia/internal/repository"
	"github.com/Alex01Dev/backend-gerencia/internal/service"
	"github.com/Alex01Dev/backend-gerencia/internal/worker"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory Repository Stubs ────────────────────────────────────────────────

var (
	_ repository.PersonaRepository     = (*stubPersonaRepo)(nil)
	_ repository.UsuarioRepository     = (*stubUsuarioRepo)(nil)
	_ repository.TransaccionRepository = (*stubTransaccionRepo)(nil)
	_ repository.SucursalRepository    = (*stubSucursalRepo)(nil)
	_ repository.RolRepository         = (*stubRolRepo)(nil)
	_ service.MediaStore               = (*stubMedia)(nil)
	_ service.Notificador              = (*stubNotificador)(nil)
	_ service.EstadisticasCache        = (*stubCache)(nil)
)

type stubPersonaRepo struct {
	personas  map[uint]*model.Persona
	nextID    uint
	deleteErr error
	usuarios  *stubUsuarioRepo
}

func newStubPersonaRepo(usuarios *stubUsuarioRepo) *stubPersonaRepo {
	return &stubPersonaRepo{personas: map[uint]*model.Persona{}, usuarios: usuarios}
}

func (r *stubPersonaRepo) DB() *gorm.DB { return nil }

func (r *stubPersonaRepo) CreateTx(_ *gorm.DB, p *model.Persona) error {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	cp := *p
	r.personas[p.ID] = &cp
	return nil
}

func (r *stubPersonaRepo) FindByID(_ context.Context, id uint) (*model.Persona, error) {
	p, ok := r.personas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubPersonaRepo) List(_ context.Context, f dto.PersonaFilter) ([]model.Persona, int64, error) {
	var out []model.Persona
	for _, p := range r.personas {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubPersonaRepo) Update(_ context.Context, p *model.Persona) error {
	if _, ok := r.personas[p.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *p
	r.personas[p.ID] = &cp
	return nil
}

func (r *stubPersonaRepo) Count(context.Context) (int64, error) { return int64(len(r.personas)), nil }

func (r *stubPersonaRepo) DistribucionTipoSangre(context.Context) ([]repository.TipoSangreTotal, error) {
	counts := map[string]int64{}
	for _, p := range r.personas {
		counts[p.TipoSangre]++
	}
	var out []repository.TipoSangreTotal
	for k, v := range counts {
		out = append(out, repository.TipoSangreTotal{TipoSangre: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TipoSangre < out[j].TipoSangre })
	return out, nil
}

func (r *stubPersonaRepo) DeleteCascadeTx(_ *gorm.DB, id uint) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.personas[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.personas, id)
	if r.usuarios != nil {
		for uid, u := range r.usuarios.users {
			if u.PersonaID == id {
				delete(r.usuarios.users, uid)
				delete(r.usuarios.roles, uid)
			}
		}
	}
	return nil
}

type stubUsuarioRepo struct {
	users      map[uint]*model.Usuario
	roles      map[uint][]string
	personas   *stubPersonaRepo
	nextID     uint
	todoTomado bool
	rolErr     error
	checks     int
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: map[uint]*model.Usuario{}, roles: map[uint][]string{}}
}

func (r *stubUsuarioRepo) DB() *gorm.DB { return nil }

func (r *stubUsuarioRepo) ExisteNombreUsuario(_ context.Context, nombre string) (bool, error) {
	r.checks++
	if r.todoTomado {
		return true, nil
	}
	for _, u := range r.users {
		if strings.EqualFold(u.NombreUsuario, nombre) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUsuarioRepo) hydrate(u *model.Usuario) *model.Usuario {
	cp := *u
	cp.Roles = nil
	for _, nombre := range r.roles[u.ID] {
		cp.Roles = append(cp.Roles, model.UsuarioRol{UsuarioID: u.ID, Activo: true, Rol: &model.Rol{Nombre: nombre}})
	}
	if r.personas != nil {
		if p, ok := r.personas.personas[u.PersonaID]; ok {
			pc := *p
			cp.Persona = &pc
		}
	}
	return &cp
}

func (r *stubUsuarioRepo) FindByLogin(_ context.Context, login string) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.Activo && (strings.EqualFold(u.NombreUsuario, login) || strings.EqualFold(u.CorreoElectronico, login)) {
			return r.hydrate(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uint) (*model.Usuario, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(u), nil
}

func (r *stubUsuarioRepo) List(_ context.Context, f dto.UsuarioFilter) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.users {
		h := r.hydrate(u)
		if (!f.IncluirInactivos && !u.Activo) || (f.Rol != "" && !h.TieneRol(f.Rol)) {
			continue
		}
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUsuarioRepo) ListActivosIDs(context.Context) ([]uint, error) {
	var ids []uint
	for id, u := range r.users {
		if u.Activo {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *stubUsuarioRepo) setActivo(id uint, v bool) error {
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = v
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uint) error { return r.setActivo(id, false) }
func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uint) error  { return r.setActivo(id, true) }
func (r *stubUsuarioRepo) Count(context.Context) (int64, error)        { return int64(len(r.users)), nil }

func (r *stubUsuarioRepo) CreateTx(_ *gorm.DB, u *model.Usuario) error {
	for _, o := range r.users {
		if strings.EqualFold(o.NombreUsuario, u.NombreUsuario) || strings.EqualFold(o.CorreoElectronico, u.CorreoElectronico) {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) AsignarRolTx(_ *gorm.DB, usuarioID uint, rol string) error {
	if r.rolErr != nil {
		return r.rolErr
	}
	r.roles[usuarioID] = append(r.roles[usuarioID], rol)
	return nil
}

func (r *stubUsuarioRepo) ReemplazarRolesTx(_ *gorm.DB, usuarioID uint, roles []string) error {
	r.roles[usuarioID] = append([]string(nil), roles...)
	return nil
}

// seedUsuario inserts an account directly, bypassing registration.
func (r *stubUsuarioRepo) seedUsuario(handle, correo, hash string, roles ...string) *model.Usuario {
	r.nextID++
	u := &model.Usuario{ID: r.nextID, NombreUsuario: handle, CorreoElectronico: correo, PasswordHash: hash, Activo: true}
	r.users[u.ID] = u
	r.roles[u.ID] = roles
	return u
}

type stubTransaccionRepo struct {
	items  map[uint]*model.Transaccion
	nextID uint
	last   dto.TransaccionFilter
}

func newStubTransaccionRepo() *stubTransaccionRepo {
	return &stubTransaccionRepo{items: map[uint]*model.Transaccion{}}
}

func (r *stubTransaccionRepo) Create(_ context.Context, t *model.Transaccion) error {
	r.nextID++
	t.ID = r.nextID
	cp := *t
	r.items[t.ID] = &cp
	return nil
}

func (r *stubTransaccionRepo) CreateMany(ctx context.Context, ts []model.Transaccion) error {
	for i := range ts {
		if err := r.Create(ctx, &ts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubTransaccionRepo) FindByID(_ context.Context, id uint) (*model.Transaccion, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTransaccionRepo) List(_ context.Context, f dto.TransaccionFilter) ([]model.Transaccion, int64, error) {
	r.last = f
	var out []model.Transaccion
	for _, t := range r.items {
		if f.UsuarioID != nil && t.UsuarioID != *f.UsuarioID {
			continue
		}
		if f.Tipo != "" && t.Tipo != f.Tipo {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubTransaccionRepo) Update(_ context.Context, t *model.Transaccion) error {
	cp := *t
	r.items[t.ID] = &cp
	return nil
}

func (r *stubTransaccionRepo) Cancelar(_ context.Context, id uint) error {
	t, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.Estatus = model.EstatusCancelada
	return nil
}

func (r *stubTransaccionRepo) SumaPagadas(_ context.Context, usuarioID *uint, tipo string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range r.items {
		if t.Tipo == tipo && t.Estatus == model.EstatusPagada && (usuarioID == nil || t.UsuarioID == *usuarioID) {
			total = total.Add(t.Monto)
		}
	}
	return total, nil
}

func (r *stubTransaccionRepo) Count(context.Context) (int64, error) { return int64(len(r.items)), nil }

type stubSucursalRepo struct {
	items  map[uint]*model.Sucursal
	nextID uint
}

func newStubSucursalRepo() *stubSucursalRepo {
	return &stubSucursalRepo{items: map[uint]*model.Sucursal{}}
}

func (r *stubSucursalRepo) Create(_ context.Context, s *model.Sucursal) error {
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *stubSucursalRepo) FindByID(_ context.Context, id uint) (*model.Sucursal, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubSucursalRepo) List(_ context.Context, _ dto.SucursalFilter) ([]model.Sucursal, int64, error) {
	var out []model.Sucursal
	for _, s := range r.items {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSucursalRepo) Update(_ context.Context, s *model.Sucursal) error {
	cp := *s
	r.items[s.ID] = &cp
	return nil
}

func (r *stubSucursalRepo) SoftDelete(_ context.Context, id uint) error {
	s, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.Activo = false
	return nil
}

func (r *stubSucursalRepo) Estadisticas(context.Context) (*dto.SucursalEstadisticas, error) {
	return &dto.SucursalEstadisticas{TotalSucursales: int64(len(r.items))}, nil
}

type stubRolRepo struct {
	roles []model.Rol
}

func (r *stubRolRepo) Count(context.Context) (int64, error) { return int64(len(r.roles)), nil }
func (r *stubRolRepo) List(context.Context) ([]model.Rol, error) {
	return r.roles, nil
}
func (r *stubRolRepo) CreateMany(_ context.Context, roles []model.Rol) error {
	r.roles = append(r.roles, roles...)
	return nil
}

// ── Collaborator Stubs ────────────────────────────────────────────────────────

type stubMedia struct {
	stored  map[string][]byte
	deleted []string
	err     error
	n       int
}

func newStubMedia() *stubMedia { return &stubMedia{stored: map[string][]byte{}} }

func (m *stubMedia) Store(_ context.Context, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.n++
	ref := "foto" + string(rune('0'+m.n)) + ".png"
	m.stored[ref] = data
	return ref, nil
}

func (m *stubMedia) Delete(_ context.Context, ref string) error {
	m.deleted = append(m.deleted, ref)
	delete(m.stored, ref)
	return nil
}

type stubNotificador struct {
	mu   sync.Mutex
	sent []worker.BienvenidaPayload
	err  error
}

func (n *stubNotificador) EnqueueBienvenida(_ context.Context, p worker.BienvenidaPayload) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, p)
	return nil
}

type stubCache struct {
	data    map[string]*dto.TransaccionEstadisticas
	deletes int
}

func newStubCache() *stubCache { return &stubCache{data: map[string]*dto.TransaccionEstadisticas{}} }

func (c *stubCache) Get(_ context.Context, key string) (*dto.TransaccionEstadisticas, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *stubCache) Set(_ context.Context, key string, v *dto.TransaccionEstadisticas) {
	c.data[key] = v
}
func (c *stubCache) Delete(_ context.Context, key string) {
	c.deletes++
	delete(c.data, key)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

var errBoom = errors.New("boom")

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		BcryptCost:         4,
		MaxPhotoBytes:      1 << 20,
	}
}

func ptr[T any](v T) *T { return &v }

func registroValido() dto.RegistroRequest {
	return dto.RegistroRequest{
		Nombre:            "Juan",
		PrimerApellido:    "Martinez",
		SegundoApellido:   ptr("Lopez"),
		CorreoElectronico: "Juan.Martinez@Example.com",
		Contrasena:        "s3cret-pass",
		FechaNacimiento:   "1990-05-17",
		Genero:            model.GeneroHombre,
		TipoSangre:        "O_POSITIVO",
	}
}
