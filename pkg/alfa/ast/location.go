package ast

import (
	alfaErrors "mercator-hq/alfac/pkg/alfa/errors"
)

// Location identifies a position in an ALFA source file. It is shared
// with the errors package so AST nodes and errors report positions the
// same way.
type Location = alfaErrors.Location
