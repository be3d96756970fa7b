package events

const (
	ContractCreated   = "contract.created"
	ContractUpdated   = "contract.updated"
	CommentAdded      = "comment.added"
	CommentResolved   = "comment.resolved"
	PermissionGranted = "permission.granted"
	PermissionRevoked = "permission.revoked"
	PermissionUpdated = "permission.updated"
	UserRegistered    = "user.registered"
	UserRoleChanged   = "user.role_changed"
	UserPasswordReset = "user.password_reset"
	UserDeleted       = "user.deleted"
)

// AllTypes lists every domain event the services emit.
var AllTypes = []string{
	ContractCreated,
	ContractUpdated,
	CommentAdded,
	CommentResolved,
	PermissionGranted,
	PermissionRevoked,
	PermissionUpdated,
	UserRegistered,
	UserRoleChanged,
	UserPasswordReset,
	UserDeleted,
}

func NewContractCreated(contractID, actorID, clientID int64, status string) BaseEvent {
	return NewEvent(ContractCreated, map[string]interface{}{
		"contract_id": contractID,
		"actor_id":    actorID,
		"client_id":   clientID,
		"status":      status,
	})
}

func NewContractUpdated(contractID, actorID int64, fields []string) BaseEvent {
	return NewEvent(ContractUpdated, map[string]interface{}{
		"contract_id": contractID,
		"actor_id":    actorID,
		"fields":      fields,
	})
}

func NewCommentAdded(contractID, commentID, authorID int64) BaseEvent {
	return NewEvent(CommentAdded, map[string]interface{}{
		"contract_id": contractID,
		"comment_id":  commentID,
		"author_id":   authorID,
	})
}

func NewCommentResolved(contractID, commentID, actorID int64) BaseEvent {
	return NewEvent(CommentResolved, map[string]interface{}{
		"contract_id": contractID,
		"comment_id":  commentID,
		"actor_id":    actorID,
	})
}

func NewPermissionEvent(eventType string, permissionID, employeeID, contractID, actorID int64) BaseEvent {
	return NewEvent(eventType, map[string]interface{}{
		"permission_id": permissionID,
		"employee_id":   employeeID,
		"contract_id":   contractID,
		"actor_id":      actorID,
	})
}

func NewUserEvent(eventType string, userID, actorID int64, extra map[string]interface{}) BaseEvent {
	data := map[string]interface{}{
		"user_id":  userID,
		"actor_id": actorID,
	}
	for k, v := range extra {
		data[k] = v
	}
	return NewEvent(eventType, data)
}
