package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("ugeplanen er ændret af en anden, genindlæs og prøv igen")
