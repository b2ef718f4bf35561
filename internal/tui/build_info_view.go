// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"

	"github.com/MKhiriev/go-vault-access/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo) string {
	body := fmt.Sprintf(
		"Название приложения: %s\nВерсия: %s\nДата: %s\nКоммит: %s",
		info.AppName(), info.BuildVersion(), info.BuildDate(), info.BuildCommit(),
	)
	return overlayBoxStyle.Render(renderPage("ИНФОРМАЦИЯ О ПРОГРАММЕ", body, "esc: назад"))
}
