package adminmenu

import "errors"

var (
	// ErrPermissionDenied indicates the caller lacks privilege for the
	// requested scope. The operation is rejected, never retried.
	ErrPermissionDenied = errors.New("adminmenu: permission denied")
	// ErrInvalidDocument indicates an import payload that is not a keyed
	// structure. The store is left untouched.
	ErrInvalidDocument = errors.New("adminmenu: invalid transfer document")
	// ErrUnknownRole indicates a save or copy addressed a role the identity
	// provider does not know.
	ErrUnknownRole = errors.New("adminmenu: unknown role")
	// ErrUnknownUser indicates a save addressed a user without any
	// resolvable role.
	ErrUnknownUser = errors.New("adminmenu: unknown user")
	// ErrNoMenuProvider indicates RenderMenu was called without a
	// configured menu source.
	ErrNoMenuProvider = errors.New("adminmenu: menu provider not configured")
	// ErrNoEvaluator indicates visibility rules are registered but no
	// evaluator could be resolved.
	ErrNoEvaluator = errors.New("adminmenu: evaluator not configured")
)
