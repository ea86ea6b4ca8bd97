// Package runner запускает один внешний процесс, построчно передаёт его
// совмещённый stdout/stderr вызывающей стороне и возвращает вердикт по
// коду выхода.
//
// Пакет не знает ничего про pipeline/stage/task — он получает только
// команду для запуска и callback на строку. Конкретный исполняемый файл
// задачи (реальный CI-executor) — внешний компонент; runner лишь
// запускает то, что ему передали.
package runner

import (
	"bufio"
	"context"
	"io"
	"os/exec"

	"golang.org/x/sync/errgroup"
)

// Verdict — итог выполнения задачи.
type Verdict string

const (
	// Pass — процесс завершился с кодом 0.
	Pass Verdict = "Pass"
	// Fail — процесс завершился с ненулевым кодом, либо не удалось его
	// запустить вовсе.
	Fail Verdict = "Fail"
)

// Config описывает, какой процесс запускать.
type Config struct {
	// Path — путь к исполняемому файлу.
	Path string
	// Args — аргументы командной строки.
	Args []string
	// Dir — рабочая директория; пусто значит текущая.
	Dir string
	// Env — переменные окружения процесса; nil значит окружение текущего
	// процесса (поведение os/exec по умолчанию).
	Env []string
}

// Run запускает процесс, описанный cfg, сливает его stdout и stderr в
// единый построчный поток (порядок между двумя потоками не
// гарантируется) и вызывает onLine для каждой строки в
// порядке её появления на объединённом потоке. onLine вызывается из
// единственной горутины — вызывающей стороне не нужна синхронизация.
//
// Если процесс не удалось запустить вообще, Run всё равно возвращает
// Fail, а текст ошибки один раз передаётся через onLine.
func Run(ctx context.Context, cfg Config, onLine func(line string)) Verdict {
	cmd := exec.CommandContext(ctx, cfg.Path, cfg.Args...)
	cmd.Dir = cfg.Dir
	if cfg.Env != nil {
		cmd.Env = cfg.Env
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		onLine(err.Error())
		return Fail
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		onLine(err.Error())
		return Fail
	}

	if err := cmd.Start(); err != nil {
		onLine(err.Error())
		return Fail
	}

	lines := make(chan string)

	var g errgroup.Group
	g.Go(func() error { return scanInto(stdout, lines) })
	g.Go(func() error { return scanInto(stderr, lines) })

	done := make(chan struct{})
	go func() {
		defer close(done)
		for line := range lines {
			onLine(line)
		}
	}()

	// scanInto глотает ошибки сканера (обрыв чтения = усечение вывода);
	// g.Wait здесь лишь сообщает, что оба читателя закончили.
	_ = g.Wait()
	close(lines)
	<-done

	waitErr := cmd.Wait()
	if waitErr == nil {
		return Pass
	}
	return Fail
}

// scanInto переливает каждую строку r в lines в порядке появления.
// Ошибка чтения посреди потока молча усекает вывод — строки, пришедшие
// до неё, сохраняются; вердикт всегда определяется кодом выхода
// процесса, повторов нет.
func scanInto(r io.Reader, lines chan<- string) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	return scanner.Err()
}
