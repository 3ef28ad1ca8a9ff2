// Copyright 2023 uhppoted@twyst.co.za. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package uhppoted-app-sheets-pdf exports Google Sheets spreadsheets to paginated,
fit-to-width landscape PDF files stored alongside the spreadsheet in Google Drive.

uhppoted-app-sheets-pdf is intended to run as an HTTP service invoked with the
delegated access token of the user requesting the export, but can also be run
from the command line.

uhppoted-app-sheets-pdf supports the following commands:

  - run, to start the HTTP export service
  - export, to export a Google Sheets spreadsheet to a PDF in its Google Drive folder
  - render, to render a local .xlsx workbook to a PDF file
  - version, to display the current version
*/
package sheetspdf
