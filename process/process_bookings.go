package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aashavskiy/tennisbookingbot/models"
	"github.com/aashavskiy/tennisbookingbot/pkg/extract"
)

// Batch importer for booking screenshots dropped into a directory: scans
// (and optionally watches) the directory, runs the extraction pipeline per
// image and records complete bookings for one user.

var verbose bool

var imageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return gdb
}

func main() {
	dirFlag := flag.String("dir", "incoming", "directory to scan for booking screenshots")
	telegramID := flag.Int64("telegram-id", 0, "Telegram ID of the user to record bookings for")
	dryRun := flag.Bool("dry-run", false, "Skip all DB writes; just extract and print")
	watch := flag.Bool("watch", false, "Watch directory for new files")
	workers := flag.Int("workers", 0, "Worker pool size (default NumCPU)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose per-file logging")
	flag.Parse()

	_ = godotenv.Load()

	pipe := extract.NewPipeline(extract.DefaultConfig(), nil)

	var gdb *gorm.DB
	var user models.User
	if !*dryRun {
		if *telegramID == 0 {
			log.Fatalf("--telegram-id is required unless --dry-run")
		}
		gdb = mustInitDBFromEnv()
		if err := gdb.Where("telegram_id = ?", *telegramID).First(&user).Error; err != nil {
			log.Fatalf("user with telegram id %d not found: %v", *telegramID, err)
		}
	}

	n := *workers
	if n <= 0 {
		n = runtime.NumCPU()
	}

	files := listImageFiles(*dirFlag)
	log.Printf("found %d candidate files in %s", len(files), *dirFlag)

	jobs := make(chan string, len(files)+16)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				processFile(pipe, gdb, user.ID, path, *dryRun)
			}
		}()
	}
	for _, f := range files {
		jobs <- filepath.Join(*dirFlag, f)
	}

	if *watch {
		watchDir(*dirFlag, jobs)
	}
	close(jobs)
	wg.Wait()
}

func listImageFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("read dir %s: %v", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExt[strings.ToLower(filepath.Ext(e.Name()))] {
			out = append(out, e.Name())
		}
	}
	return out
}

func processFile(pipe *extract.Pipeline, gdb *gorm.DB, userID uint, path string, dryRun bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("%s: read failed: %v", path, err)
		return
	}
	info, combined, err := pipe.ExtractFromBytes(context.Background(), data, "")
	switch {
	case errors.Is(err, extract.ErrDecode):
		log.Printf("%s: not a decodable image, skipping", path)
		return
	case errors.Is(err, extract.ErrNoText):
		log.Printf("%s: no text recognized, skipping", path)
		return
	case err != nil:
		log.Printf("%s: extraction failed: %v", path, err)
		return
	}
	if verbose {
		log.Printf("%s: combined text: %s", path, combined)
	}
	if !info.Complete() {
		log.Printf("%s: incomplete (missing %s), not recording", path, strings.Join(info.Missing(), ", "))
		return
	}
	log.Printf("%s: date=%s time=%s court=%s", path, info.Date, info.Time, info.Court)
	if dryRun {
		return
	}
	b := models.Booking{UserID: userID, Date: info.Date, Time: info.Time, Court: info.Court}
	if err := gdb.Create(&b).Error; err != nil {
		log.Printf("%s: save booking: %v", path, err)
		return
	}
	log.Printf("%s: booking recorded (id=%d)", path, b.ID)
}

// watchDir feeds newly created image files into the job channel until
// interrupted. Blocks forever.
func watchDir(dir string, jobs chan<- string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatalf("watcher: %v", err)
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		log.Fatalf("watch %s: %v", dir, err)
	}
	log.Printf("watching %s for new files", dir)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create == fsnotify.Create && imageExt[strings.ToLower(filepath.Ext(ev.Name))] {
				jobs <- ev.Name
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}
