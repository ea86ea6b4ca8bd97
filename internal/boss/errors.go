package boss

import "errors"

// ErrRunNotCurrent возвращается (и отображается в 404), когда запрос
// называет run_id, не совпадающий с текущим ActiveRun — такого запуска
// либо не было вовсе, либо его уже вытеснил более новый.
var ErrRunNotCurrent = errors.New("boss: requested run is not the current run")
