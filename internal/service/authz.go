package service

import "github.com/jabatayo/task-management-api/internal/model"

// Доступ на чтение: администратор, создатель или исполнитель.
func CanAccess(ident model.Identity, t model.Task) bool {
	return ident.IsAdmin ||
		t.CreatedBy == ident.ID ||
		(t.AssignedTo != nil && *t.AssignedTo == ident.ID)
}

// CanModify намеренно совпадает с CanAccess: исполнитель может править
// задачу, включая переназначение.
func CanModify(ident model.Identity, t model.Task) bool {
	return CanAccess(ident, t)
}

// CanDelete строже: только администратор или создатель. Исполнитель сам по
// себе удалять не может.
func CanDelete(ident model.Identity, t model.Task) bool {
	return ident.IsAdmin || t.CreatedBy == ident.ID
}
