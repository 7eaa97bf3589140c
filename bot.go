package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aashavskiy/tennisbookingbot/pkg/extract"
)

var bot *tgbotapi.BotAPI

// processUpdate handles one Telegram update. Called from the webhook
// handler (in its own goroutine) or from the polling loop.
func processUpdate(update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		handleCallback(update.CallbackQuery)
	case update.Message == nil:
		return
	case update.Message.IsCommand():
		handleCommand(update.Message)
	case len(update.Message.Photo) > 0:
		handlePhoto(update.Message)
	default:
		handleText(update.Message)
	}
}

func handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		handleStart(msg)
	case "admin":
		handleAdminStatus(msg)
	case "users":
		handleListUsers(msg)
	case "bookings":
		handleListBookings(msg)
	case "dbstatus":
		handleDBStatus(msg)
	default:
		reply(msg.Chat.ID, "Unknown command. Send a booking screenshot or use /start, /bookings.")
	}
}

// handleStart registers new users and tells existing ones where they stand.
// New registrations ping the administrator with an inline approve button.
func handleStart(msg *tgbotapi.Message) {
	userID := msg.From.ID
	user, exists := getUserByTelegramID(userID)
	if !exists {
		if err := createUser(userID, msg.From.UserName); err != nil {
			log.Printf("bot: register user %d: %v", userID, err)
			reply(msg.Chat.ID, "Sorry, there was an error processing your registration. Please try again later.")
			return
		}
		notifyAdminOfRegistration(userID, msg.From.UserName)
		reply(msg.Chat.ID, "👋 Welcome! Your access request has been sent to the administrator. Please wait for approval.")
		return
	}
	if !user.IsApproved {
		reply(msg.Chat.ID, "⏳ Your access request is still pending. Please wait for administrator approval.")
		return
	}
	reply(msg.Chat.ID, "✅ Welcome back! Send me a screenshot of your tennis court booking to save it.")
}

func notifyAdminOfRegistration(userID int64, username string) {
	if cfg.AdminID == 0 {
		return
	}
	text := fmt.Sprintf("👤 New user registration request:\nID: %d\nUsername: @%s", userID, username)
	m := tgbotapi.NewMessage(cfg.AdminID, text)
	m.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", "approve_"+strconv.FormatInt(userID, 10)),
		),
	)
	if _, err := bot.Send(m); err != nil {
		log.Printf("bot: notify admin: %v", err)
	}
}

// handleCallback processes the admin's approve button.
func handleCallback(call *tgbotapi.CallbackQuery) {
	if !strings.HasPrefix(call.Data, "approve_") {
		return
	}
	if !isUserAdmin(call.From.ID) {
		answerCallback(call.ID, "❌ You don't have permission to approve users.")
		return
	}
	userID, err := strconv.ParseInt(strings.TrimPrefix(call.Data, "approve_"), 10, 64)
	if err != nil {
		answerCallback(call.ID, "❌ Malformed approval request.")
		return
	}
	if err := approveUser(userID); err != nil {
		log.Printf("bot: approve %d: %v", userID, err)
		answerCallback(call.ID, "❌ There was an error approving the user.")
		return
	}
	answerCallback(call.ID, "Approved")
	if call.Message != nil {
		edit := tgbotapi.NewEditMessageText(call.Message.Chat.ID, call.Message.MessageID,
			call.Message.Text+"\n\n✅ Approved!")
		if _, err := bot.Send(edit); err != nil {
			log.Printf("bot: edit approval message: %v", err)
		}
	}
	reply(userID, "✅ Your access has been approved! You can now use the bot's features.")
}

func answerCallback(id, text string) {
	if _, err := bot.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("bot: answer callback: %v", err)
	}
}

func handleAdminStatus(msg *tgbotapi.Message) {
	if isUserAdmin(msg.From.ID) {
		reply(msg.Chat.ID, fmt.Sprintf("✅ User @%s (ID: %d) is an administrator.", msg.From.UserName, msg.From.ID))
	} else {
		reply(msg.Chat.ID, fmt.Sprintf("❌ User @%s (ID: %d) is not an administrator.", msg.From.UserName, msg.From.ID))
	}
}

func handleListUsers(msg *tgbotapi.Message) {
	if !isUserAdmin(msg.From.ID) {
		reply(msg.Chat.ID, "❌ You do not have permission to view users.")
		return
	}
	users, err := listUsers()
	if err != nil {
		log.Printf("bot: list users: %v", err)
		reply(msg.Chat.ID, "❌ Failed to load users.")
		return
	}
	if len(users) == 0 {
		reply(msg.Chat.ID, "📭 No users found.")
		return
	}
	var b strings.Builder
	b.WriteString("👤 Registered Users:\n")
	for _, u := range users {
		status := "⏳ Pending"
		if u.IsApproved {
			status = "✅ Approved"
		}
		adminMark := ""
		if u.IsAdmin {
			adminMark = " (Admin)"
		}
		fmt.Fprintf(&b, "🆔 %d - @%s%s - %s\n", u.TelegramID, u.Username, adminMark, status)
	}
	reply(msg.Chat.ID, b.String())
}

func handleListBookings(msg *tgbotapi.Message) {
	user, ok := getUserByTelegramID(msg.From.ID)
	if !ok || !user.IsApproved {
		reply(msg.Chat.ID, "⏳ Please wait for administrator approval before using the bot.")
		return
	}
	bookings, err := listUserBookings(user.ID)
	if err != nil {
		log.Printf("bot: list bookings: %v", err)
		reply(msg.Chat.ID, "❌ Failed to load bookings.")
		return
	}
	if len(bookings) == 0 {
		reply(msg.Chat.ID, "📭 You don't have any bookings yet.")
		return
	}
	var b strings.Builder
	b.WriteString("📅 Your bookings:\n\n")
	for _, bk := range bookings {
		fmt.Fprintf(&b, "Date: %s\nTime: %s\nCourt: %s\nAdded: %s\n---------------\n",
			bk.Date, bk.Time, bk.Court, bk.CreatedAt.Format("2006-01-02 15:04"))
	}
	reply(msg.Chat.ID, b.String())
}

func handleDBStatus(msg *tgbotapi.Message) {
	if !isUserAdmin(msg.From.ID) {
		reply(msg.Chat.ID, "❌ You do not have permission to check database status.")
		return
	}
	if err := pingDB(); err != nil {
		reply(msg.Chat.ID, fmt.Sprintf("❌ Database connection test failed: %v", err))
		return
	}
	reply(msg.Chat.ID, "✅ Database connection is working.")
}

// handlePhoto runs the extraction pipeline on an uploaded screenshot. The
// caption, when present, is passed down as the field-extraction hint.
func handlePhoto(msg *tgbotapi.Message) {
	user, ok := getUserByTelegramID(msg.From.ID)
	if !ok || !user.IsApproved {
		reply(msg.Chat.ID, "⏳ Please wait for administrator approval before using the bot.")
		return
	}
	reply(msg.Chat.ID, "🔍 Processing your booking image...")

	// Largest photo size is last.
	fileID := msg.Photo[len(msg.Photo)-1].FileID
	data, err := downloadTelegramFile(fileID)
	if err != nil {
		log.Printf("bot: download photo %s: %v", fileID, err)
		reply(msg.Chat.ID, "❌ Error processing your image. Please try again.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), pipeline.Config().Budget+10*time.Second)
	defer cancel()
	info, combined, err := pipeline.ExtractFromBytes(ctx, data, msg.Caption)
	switch {
	case errors.Is(err, extract.ErrDecode):
		reply(msg.Chat.ID, "❌ That doesn't look like an image I can read. Please send a clearer screenshot.")
		return
	case errors.Is(err, extract.ErrNoText):
		reply(msg.Chat.ID, "❌ Could not extract text from image. Please send a clearer image.")
		return
	case err != nil:
		log.Printf("bot: extraction failed: %v", err)
		reply(msg.Chat.ID, "❌ Error processing your image. Please try again.")
		return
	}

	reply(msg.Chat.ID, "📄 Extracted text:\n\n"+truncate(combined, 2000))
	reply(msg.Chat.ID, fmt.Sprintf("📋 Extracted booking details:\nDate: %s\nTime: %s\nCourt: %s",
		orNotFound(info.Date), orNotFound(info.Time), orNotFound(info.Court)))

	if !info.Complete() {
		reply(msg.Chat.ID, "❌ Could not find all required information. Missing: "+strings.Join(info.Missing(), ", "))
		return
	}
	if err := saveBooking(user.ID, info.Date, info.Time, info.Court); err != nil {
		log.Printf("bot: save booking: %v", err)
		reply(msg.Chat.ID, "❌ Failed to save booking to database.")
		return
	}
	reply(msg.Chat.ID, fmt.Sprintf("✅ Booking recorded successfully!\n\n📅 Date: %s\n🕒 Time: %s\n🎾 Court: %s",
		info.Date, info.Time, info.Court))
}

func handleText(msg *tgbotapi.Message) {
	if !isUserApproved(msg.From.ID) {
		reply(msg.Chat.ID, "⏳ Please wait for administrator approval before using the bot.")
		return
	}
	reply(msg.Chat.ID, "Send me a screenshot of your tennis court booking to save it.")
}

func downloadTelegramFile(fileID string) ([]byte, error) {
	file, err := bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	resp, err := http.Get(file.Link(bot.Token))
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func reply(chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("bot: send to %d: %v", chatID, err)
	}
}

func orNotFound(v string) string {
	if v == "" {
		return "Not found"
	}
	return v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
