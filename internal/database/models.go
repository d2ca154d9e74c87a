package database

import "caseboard/internal/models"

// PersistentModels returns every model registered for migration, in
// dependency order so foreign rows exist before their references.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
	}
}
