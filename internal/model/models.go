package model

// All returns every model in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Persona{},
		&Usuario{},
		&Rol{},
		&UsuarioRol{},
		&Sucursal{},
		&Transaccion{},
	}
}
