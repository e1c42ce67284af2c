package modulperiode

import (
	"errors"
	"fmt"
)

// ErrInvalidIdentifier 所有 ParseError 均可用 errors.Is 匹配到该哨兵
var ErrInvalidIdentifier = errors.New("ugyldig modulperiode")

// ParseError 标识不符合 YY-H-MN 格式，或半年/模块号越界
type ParseError struct {
	Identifier string
	Reason     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ugyldig modulperiode %q: %s", e.Identifier, e.Reason)
}

// Is 使 errors.Is(err, ErrInvalidIdentifier) 成立
func (e *ParseError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}
