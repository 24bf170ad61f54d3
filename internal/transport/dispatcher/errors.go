package dispatcher

import "errors"

var ErrNoNotifications = errors.New("no notifications")
