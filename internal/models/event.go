package models

// Event names pushed to every connection in a room
const (
	EventPlayerJoined     = "playerJoined"
	EventStartGame        = "startGame"
	EventGameUpdate       = "gameUpdate"
	EventPlayerDisconnect = "playerDisconnect"
)
