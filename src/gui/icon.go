package gui

import "fyne.io/fyne/v2"

// iconSVG is the window and tray icon: a dotted loop around three points.
const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <path d="M3 8 C3 3, 13 2, 13 7 C13 12, 4 13, 3 8 Z" fill="none" stroke="#0078d4" stroke-width="1.5" stroke-dasharray="2,1"/>
  <circle cx="6" cy="7" r="1" fill="#d62728"/>
  <circle cx="9" cy="9" r="1" fill="#d62728"/>
  <circle cx="10" cy="6" r="1" fill="#d62728"/>
  <circle cx="14.5" cy="14" r="0.8" fill="#333333"/>
</svg>`

var iconResource = fyne.NewStaticResource("plot-lasso.svg", []byte(iconSVG))
