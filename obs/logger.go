/*************************************************************************
 * Copyright (C) 2016-2019 PDX Technologies, Inc. All Rights Reserved.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 * @Time   : 2020/7/8 4:02 下午
 * @Author : liangc
 *************************************************************************/

package obs

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"time"
)

// Logger writes one JSON object per line.
type Logger struct {
	l *log.Logger
}

func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout)
}

func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{
		l: log.New(w, "", 0),
	}
}

func (lg *Logger) Info(fields map[string]interface{}) {
	lg.write("info", fields)
}

func (lg *Logger) Error(fields map[string]interface{}) {
	lg.write("error", fields)
}

func (lg *Logger) write(level string, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{}, 2)
	}
	fields["level"] = level
	fields["ts"] = time.Now().UTC().Format(time.RFC3339Nano)

	b, err := json.Marshal(fields)
	if err != nil {
		b, _ = json.Marshal(map[string]interface{}{
			"level": "error",
			"ts":    fields["ts"],
			"msg":   "unencodable log fields",
			"error": err.Error(),
		})
	}
	lg.l.Println(string(b))
}
