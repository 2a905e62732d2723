// Package identity derives the login handle and the initial role of a new
// account from the owning person's data. Nothing here writes to storage: the
// only external dependency is a read-only uniqueness check.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Alex01Dev/backend-gerencia/internal/model"
)

const (
	// MaxIntentos bounds the suffix search. Exhaustion means the uniqueness
	// check is not behaving, so it is reported instead of looping forever.
	MaxIntentos = 999

	largoSemilla = 7
	largoBase    = 6
)

// Email fragments checked by ClasificarRol, in priority order.
const (
	DominioGerencia      = "gymbullsge"
	DominioColaboradores = "gymbullco"
)

var (
	// ErrGeneracionAgotada is returned when no free handle exists within MaxIntentos.
	ErrGeneracionAgotada = errors.New("identity: generacion de nombre de usuario agotada")
	// ErrSemillaVacia is returned when the names contain no letters at all.
	ErrSemillaVacia = errors.New("identity: no hay letras para construir el nombre de usuario")
)

// Oraculo answers whether a handle is already taken, ignoring case.
type Oraculo interface {
	ExisteNombreUsuario(ctx context.Context, nombreUsuario string) (bool, error)
}

// OraculoFunc adapts a plain function to Oraculo.
type OraculoFunc func(ctx context.Context, nombreUsuario string) (bool, error)

func (f OraculoFunc) ExisteNombreUsuario(ctx context.Context, nombreUsuario string) (bool, error) {
	return f(ctx, nombreUsuario)
}

// Semilla builds the raw candidate: first letter of nombre, first three of
// each family name, lower-cased. Non-letters are skipped and short names
// contribute fewer characters, so the result has at most 7 runes.
func Semilla(nombre, primerApellido, segundoApellido string) string {
	var b strings.Builder
	b.WriteString(primerasLetras(nombre, 1))
	b.WriteString(primerasLetras(primerApellido, 3))
	b.WriteString(primerasLetras(segundoApellido, 3))
	return truncar(strings.ToLower(b.String()), largoSemilla)
}

// GenerarNombreUsuario returns the seed if it is free, otherwise the first
// free "base6 + n" candidate for n = 1..MaxIntentos.
func GenerarNombreUsuario(ctx context.Context, oraculo Oraculo, nombre, primerApellido, segundoApellido string) (string, error) {
	semilla := Semilla(nombre, primerApellido, segundoApellido)
	if semilla == "" {
		return "", ErrSemillaVacia
	}

	existe, err := oraculo.ExisteNombreUsuario(ctx, semilla)
	if err != nil {
		return "", fmt.Errorf("identity: verificar %q: %w", semilla, err)
	}
	if !existe {
		return semilla, nil
	}

	base := truncar(semilla, largoBase)
	for n := 1; n <= MaxIntentos; n++ {
		candidato := base + strconv.Itoa(n)
		existe, err := oraculo.ExisteNombreUsuario(ctx, candidato)
		if err != nil {
			return "", fmt.Errorf("identity: verificar %q: %w", candidato, err)
		}
		if !existe {
			return candidato, nil
		}
	}
	return "", fmt.Errorf("%w: semilla %q", ErrGeneracionAgotada, semilla)
}

// ClasificarRol maps an email to the initial role. First matching fragment wins.
func ClasificarRol(correo string) string {
	correo = strings.ToLower(correo)
	switch {
	case strings.Contains(correo, DominioGerencia):
		return model.RolAdministrador
	case strings.Contains(correo, DominioColaboradores):
		return model.RolColaborador
	default:
		return model.RolCliente
	}
}

func primerasLetras(s string, n int) string {
	out := make([]rune, 0, n)
	for _, r := range s {
		if len(out) == n {
			break
		}
		if unicode.IsLetter(r) {
			out = append(out, r)
		}
	}
	return string(out)
}

func truncar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
