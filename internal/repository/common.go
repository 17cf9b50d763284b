package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrDuplicateKey 违反唯一约束
var ErrDuplicateKey = errors.New("duplicate key")

const mysqlDuplicateEntry = 1062

// DuplicateKeyError 携带冲突的唯一索引名，例如 idx_email
type DuplicateKeyError struct {
	Index string
}

func (e *DuplicateKeyError) Error() string {
	return "duplicate key on " + e.Index
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// wrapDuplicate 将 MySQL 1062 转为 DuplicateKeyError，其它错误原样返回
func wrapDuplicate(err error, indexes ...string) error {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != mysqlDuplicateEntry {
		return err
	}
	for _, idx := range indexes {
		if strings.Contains(mysqlErr.Message, idx) {
			return &DuplicateKeyError{Index: idx}
		}
	}
	return &DuplicateKeyError{}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike 转义 LIKE 通配符，配合 ESCAPE '!' 使用
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
