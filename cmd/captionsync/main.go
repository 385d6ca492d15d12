package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ivlev/captionsync/internal/caption"
	"github.com/ivlev/captionsync/internal/config"
	"github.com/ivlev/captionsync/internal/frame"
	"github.com/ivlev/captionsync/internal/playback"
	"github.com/ivlev/captionsync/internal/preview"
	"github.com/ivlev/captionsync/internal/scene"
	"github.com/ivlev/captionsync/internal/server"
	"github.com/ivlev/captionsync/internal/style"
	"github.com/ivlev/captionsync/internal/subtitle"
	"github.com/ivlev/captionsync/internal/system"
	"github.com/ivlev/captionsync/internal/timeline"
)

func main() {
	envFile := os.Getenv("CAPTIONSYNC_ENV")
	if envFile == "" {
		envFile = ".env"
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	flag.StringVar(&cfg.ProjectPath, "project", cfg.ProjectPath, "Путь к проекту (.json/.yaml) (по умолчанию: самый свежий файл в -projects-dir)")
	flag.StringVar(&cfg.ProjectsDir, "projects-dir", cfg.ProjectsDir, "Папка с проектами")
	flag.StringVar(&cfg.StylePath, "style", cfg.StylePath, "Путь к YAML со стилем субтитров (если пусто, стиль по умолчанию)")
	flag.StringVar(&cfg.Mode, "mode", cfg.Mode, "Режим: play, preview, serve, export, snapshot")
	flag.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Интервал тика воспроизведения")
	flag.StringVar(&cfg.ListenAddr, "addr", cfg.ListenAddr, "Адрес HTTP сервера (режим serve)")
	flag.StringVar(&cfg.SRTOutput, "srt", cfg.SRTOutput, "Куда записать субтитры SRT (режим export)")
	flag.StringVar(&cfg.ASSOutput, "ass", cfg.ASSOutput, "Куда записать субтитры ASS (режим export)")
	flag.StringVar(&cfg.FrameOutput, "frame", cfg.FrameOutput, "Куда записать PNG кадр (режим snapshot)")
	flag.Float64Var(&cfg.SnapshotTime, "at", cfg.SnapshotTime, "Момент времени для кадра, сек")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "Ширина")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "Высота")
	flag.StringVar(&cfg.Preset, "preset", cfg.Preset, "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	flag.BoolVar(&cfg.ProbeAudio, "probe-audio", cfg.ProbeAudio, "Брать длительность сцен без duration из аудио (ffprobe)")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Потоки для ffprobe")
	flag.BoolVar(&cfg.ShowQR, "qr", cfg.ShowQR, "Показать QR код со ссылкой на превью (режим serve)")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Подробные логи HTTP")
	flag.Parse()

	cfg.ApplyPreset()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	projectPath := cfg.ProjectPath
	if projectPath == "" {
		latest, err := system.FindLatestProject(cfg.ProjectsDir)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v. Положите проект в %s/", err, cfg.ProjectsDir)
		}
		projectPath = latest
		fmt.Printf("[*] Выбран проект: %s\n", projectPath)
	}

	project, err := scene.ReadProject(projectPath)
	if err != nil {
		log.Fatalf("[-] Ошибка чтения проекта: %v", err)
	}
	if len(project.Scenes) == 0 {
		log.Printf("[!] В проекте нет сцен")
	}

	if cfg.ProbeAudio {
		n, err := scene.ProbeDurations(ctx, project.Scenes, system.FFProbe{}, cfg.Workers)
		if err != nil {
			log.Fatalf("[-] Ошибка ffprobe: %v", err)
		}
		fmt.Printf("[*] Длительность по аудио установлена для %d сцен\n", n)
	}

	styleCfg := style.DefaultConfig()
	if cfg.StylePath != "" {
		styleCfg, err = style.ReadConfig(cfg.StylePath)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения стиля: %v", err)
		}
	}
	if _, err := style.Resolve(styleCfg); err != nil {
		log.Fatalf("[-] Ошибка стиля: %v", err)
	}

	total := timeline.TotalDuration(project.Scenes)
	fmt.Printf("[*] %q: %d сцен, %s\n", project.Info.Title, len(project.Scenes), timeline.FormatClock(total))

	// Относительные пути к картинкам считаются от папки проекта
	baseDir := filepath.Dir(projectPath)

	switch cfg.Mode {
	case config.ModeExport:
		err = runExport(cfg, project.Scenes, styleCfg)
	case config.ModeSnapshot:
		err = runSnapshot(cfg, project.Scenes, styleCfg, baseDir)
	default:
		session := playback.NewSession(project.Scenes, styleCfg, playback.WithInterval(cfg.TickInterval))
		defer session.Close()

		switch cfg.Mode {
		case config.ModePreview:
			err = preview.Run(session)
		case config.ModeServe:
			err = runServe(ctx, cfg, session, baseDir)
		default:
			err = runPlay(ctx, session)
		}
	}

	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
}

// runPlay печатает субтитры в консоль по мере воспроизведения.
func runPlay(ctx context.Context, session *playback.Session) error {
	events, cancel := session.Subscribe()
	defer cancel()

	if err := session.Play(); err != nil {
		return err
	}

	total := session.State().TotalDuration
	last := ""
	for {
		select {
		case <-ctx.Done():
			session.Pause()
			fmt.Println("\n[*] Остановлено")
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case playback.EventProgress:
				if ev.Caption != last {
					last = ev.Caption
					fmt.Printf("[%s / %s] сцена %d: %s\n",
						timeline.FormatClock(ev.Time), timeline.FormatClock(total), ev.Scene+1, ev.Caption)
				}
			case playback.EventEnded:
				fmt.Println("[+++] Воспроизведение завершено")
				return nil
			}
		}
	}
}

func runServe(ctx context.Context, cfg *config.Config, session *playback.Session, baseDir string) error {
	renderer := frame.NewRenderer(cfg.Width, cfg.Height, baseDir)
	srv := server.New(session, renderer, cfg.Debug)

	if cfg.ShowQR {
		url := fmt.Sprintf("http://%s/api/session/frame.png", hostFor(cfg.ListenAddr))
		fmt.Printf("[*] Превью: %s\n", url)
		if err := server.PrintQR(os.Stdout, url); err != nil {
			log.Printf("[!] Не удалось построить QR код: %v", err)
		}
	}
	return srv.Run(ctx, cfg.ListenAddr)
}

func runExport(cfg *config.Config, scenes []scene.Scene, styleCfg style.Config) error {
	cues := caption.Cues(scenes, styleCfg)

	if cfg.SRTOutput != "" {
		if err := subtitle.WriteSRTFile(cues, cfg.SRTOutput); err != nil {
			return fmt.Errorf("запись SRT: %w", err)
		}
		fmt.Printf("[+++] SRT: %s (%d субтитров)\n", cfg.SRTOutput, len(cues))
	}
	if cfg.ASSOutput != "" {
		paint, err := style.Resolve(styleCfg)
		if err != nil {
			return err
		}
		if err := subtitle.WriteASSFile(cues, paint, cfg.Width, cfg.Height, cfg.ASSOutput); err != nil {
			return fmt.Errorf("запись ASS: %w", err)
		}
		fmt.Printf("[+++] ASS: %s (%d субтитров)\n", cfg.ASSOutput, len(cues))
	}
	return nil
}

func runSnapshot(cfg *config.Config, scenes []scene.Scene, styleCfg style.Config, baseDir string) error {
	out := cfg.FrameOutput
	if out == "" {
		out = filepath.Join("output", fmt.Sprintf("frame_%.2f.png", cfg.SnapshotTime))
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return err
	}

	renderer := frame.NewRenderer(cfg.Width, cfg.Height, baseDir)
	img, err := renderer.RenderAt(scenes, cfg.SnapshotTime, styleCfg)
	if err != nil {
		return err
	}
	defer renderer.Release(img)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := frame.EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("[+++] Кадр %s: %s\n", timeline.FormatClock(cfg.SnapshotTime), out)
	return nil
}

// hostFor превращает ":8080" в "localhost:8080".
func hostFor(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
