package model

import "go.mongodb.org/mongo-driver/bson/primitive"

const RoleDriver = "driver"

// User comparte colección entre clientes y repartidores; Rol los distingue.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID            string             `bson:"uid" json:"uid"`
	Nombre         string             `bson:"nombre" json:"nombre"`
	Telefono       string             `bson:"telefono,omitempty" json:"telefono,omitempty"`
	Ciudad         string             `bson:"ciudad,omitempty" json:"ciudad,omitempty"`
	Rol            string             `bson:"rol,omitempty" json:"rol,omitempty"`
	Activo         bool               `bson:"activo" json:"activo"`
	Disponible     bool               `bson:"disponible" json:"disponible"`
	TelegramChatID int64              `bson:"telegramChatId,omitempty" json:"telegramChatId,omitempty"`
}

type City struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NombreCiudad string             `bson:"nombreCiudad" json:"nombreCiudad"`
}
