package notification

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/skillconnect/marketplace/internal/server"
)

func NotificationsHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		unreadOnly := strings.EqualFold(r.URL.Query().Get("unread_only"), "true")
		notifications, err := repo.ListForUser(caller.UserID, unreadOnly, 50)
		if err != nil {
			svr.Log(err, "unable to list notifications for "+caller.UserID)
			svr.JSONError(w, http.StatusInternalServerError, "unable to list notifications")
			return
		}
		unread, err := repo.UnreadCount(caller.UserID)
		if err != nil {
			svr.Log(err, "unable to count unread notifications for "+caller.UserID)
			svr.JSONError(w, http.StatusInternalServerError, "unable to list notifications")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{
			"items":        notifications,
			"unread_count": unread,
		})
	}
}

func MarkNotificationReadHandler(svr server.Server, repo *Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := svr.GetCaller(r)
		if err != nil {
			svr.JSONError(w, http.StatusUnauthorized, "invalid or missing token")
			return
		}
		vars := mux.Vars(r)
		err = repo.MarkRead(vars["id"], caller.UserID)
		if err == ErrNotFound {
			svr.JSONError(w, http.StatusNotFound, "notification not found")
			return
		}
		if err != nil {
			svr.Log(err, "unable to mark notification read "+vars["id"])
			svr.JSONError(w, http.StatusInternalServerError, "unable to update notification")
			return
		}
		svr.JSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	}
}
